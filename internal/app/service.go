package app

import (
	"time"

	"buildplan/internal/adapters"
	"buildplan/internal/core"
	"buildplan/internal/ports"
)

type Service struct {
	ConfigLoader ports.ConfigLoaderPort
	OutputReader ports.OutputReaderPort
	SBOMWriter   ports.SBOMPort
	Outputs      func(dir string) ports.OutputPort
	Catalogs     func(dir string) ports.CatalogPort
	Resolver     core.Resolver
	Clock        func() time.Time
}

func NewService() Service {
	return Service{
		ConfigLoader: adapters.NewConfigFileAdapter(),
		OutputReader: adapters.NewOutputReaderAdapter(),
		SBOMWriter:   adapters.NewSBOMWriterAdapter(),
		Outputs: func(dir string) ports.OutputPort {
			return adapters.NewOutputFileAdapter(dir)
		},
		Catalogs: func(dir string) ports.CatalogPort {
			return adapters.NewCatalogOutputAdapter(dir)
		},
		Resolver: core.NewResolver(),
		Clock:    time.Now,
	}
}

// resolver returns the service resolver with the threshold override
// applied when one was requested.
func (s Service) resolver(desugarNativeAPI int) core.Resolver {
	resolver := s.Resolver
	if desugarNativeAPI > 0 {
		resolver.DesugarNativeAPI = desugarNativeAPI
	}
	return resolver
}
