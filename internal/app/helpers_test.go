package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const appConfigTemplate = `
api_version: "v1"
kind: "build-config"
metadata:
  name: "NAME"
  revision: "1"
application:
  namespace: "com.example.fypproject"
  application_id: "com.example.fypproject"
  version_code: 1
  version_name: "1.0.0"
java:
  source_compatibility: "11"
  target_compatibility: "11"
  jvm_target: "11"
platform:
  min_sdk: 30
  target_sdk: 35
  compile_sdk: 35
boms:
  - name: "firebase-bom"
    coordinate: "com.google.firebase:firebase-bom:33.13.0"
dependencies:
  - coordinate: "com.android.tools:desugar_jdk_libs:2.1.5"
    configuration: "coreLibraryDesugaring"
  - coordinate: "androidx.core:core-ktx:1.16.0"
  - coordinate: "com.google.firebase:firebase-auth"
    bom: "firebase-bom"
release:
  minify: true
  desugaring: true
  proguard_rule_files:
    - "default:proguard-android-optimize.txt"
    - "proguard-rules.pro"
`

const conflictingConfig = `
api_version: "v1"
kind: "build-config"
metadata:
  name: "conflicting"
  revision: "1"
application:
  namespace: "com.example.fypproject"
platform:
  min_sdk: 30
  target_sdk: 35
  compile_sdk: 35
dependencies:
  - coordinate: "com.google.firebase:firebase-database:21.0.0"
  - coordinate: "com.google.firebase:firebase-database:20.3.1"
release:
  minify: true
`

func writeAppConfig(t *testing.T, dir string, name string) string {
	t.Helper()
	return writeRawConfig(t, dir, name+".yaml", strings.Replace(appConfigTemplate, "NAME", name, 1))
}

func writeRawConfig(t *testing.T, dir string, file string, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
