package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasilecampeanu/openapi-codegen/internal/generate"
	"github.com/vasilecampeanu/openapi-codegen/internal/output"
)

const loginSpecYAML = `swagger: '2.0'
info:
  title: Auth API
  version: '1.0'
basePath: /api
paths:
  /auth/Login:
    post:
      parameters:
        - in: body
          name: body
          required: true
          schema:
            $ref: '#/definitions/LoginRequest'
      responses:
        '200':
          description: ok
          schema:
            $ref: '#/definitions/LoginResponse'
  /auth/Logout:
    post:
      responses:
        '204':
          description: done
definitions:
  LoginRequest:
    type: object
    required: [username, password]
    properties:
      username:
        type: string
      password:
        type: string
  LoginResponse:
    type: object
    properties:
      token:
        type: string
`

func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = old }()
	fn()
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestGeneratePipeline_DryRun(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", loginSpecYAML)
	outDir := filepath.Join(dir, "out")

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", specPath, "--paths", "/auth/Login", "--out", outDir, "--dry-run"})

	out := captureStdout(func() {
		require.NoError(t, root.Execute())
	})
	assert.Contains(t, out, "Planned writes to")
	assert.Contains(t, out, "(3 files)")
	assert.Contains(t, out, "- models/LoginRequest.ts")
	assert.Contains(t, out, "- models/LoginResponse.ts")
	assert.Contains(t, out, "- requests/api/auth/PostLogin.ts")

	_, err := os.Stat(outDir)
	assert.True(t, os.IsNotExist(err), "dry-run must not write")
}

func TestGeneratePipeline_WritesManifestAndCleansUp(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", loginSpecYAML)
	outDir := filepath.Join(dir, "out")

	cfg := &GenerateConfig{
		Groups:  []generate.Group{{URL: specPath}},
		Out:     outDir,
		Indent:  2,
		Divider: ".",
	}
	require.NoError(t, runGenerateWith(context.Background(), cfg, quietLogger()))

	m, err := output.ReadManifest(outDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"models/LoginRequest.ts",
		"models/LoginResponse.ts",
		"requests/api/auth/PostLogin.ts",
		"requests/api/auth/PostLogout.ts",
	}, m.Files)

	login, err := os.ReadFile(filepath.Join(outDir, "requests/api/auth/PostLogin.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(login), "export class PostLogin extends PostRequest<LoginRequest, LoginResponse>")

	// Narrowing the patterns removes what is no longer generated, except kept files.
	cfg.Groups = []generate.Group{{URL: specPath, Paths: []string{"/auth/Login"}}}
	cfg.Keep = []string{"requests/api/auth/PostLogout.ts"}
	require.NoError(t, runGenerateWith(context.Background(), cfg, quietLogger()))
	assert.FileExists(t, filepath.Join(outDir, "requests/api/auth/PostLogout.ts"))

	cfg.Keep = nil
	require.NoError(t, runGenerateWith(context.Background(), cfg, quietLogger()))
	assert.NoFileExists(t, filepath.Join(outDir, "requests/api/auth/PostLogout.ts"))
	assert.FileExists(t, filepath.Join(outDir, "requests/api/auth/PostLogin.ts"))

	m, err = output.ReadManifest(outDir)
	require.NoError(t, err)
	assert.Len(t, m.Files, 3)
}

func TestGeneratePipeline_FailedGroupSkipsCleanup(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", loginSpecYAML)
	outDir := filepath.Join(dir, "out")

	cfg := &GenerateConfig{Groups: []generate.Group{{URL: specPath}}, Out: outDir, Indent: 2, Divider: "."}
	require.NoError(t, runGenerateWith(context.Background(), cfg, quietLogger()))

	cfg.Groups = []generate.Group{
		{URL: filepath.Join(dir, "missing.yaml")},
		{URL: specPath, Paths: []string{"/auth/Login"}},
	}
	err := runGenerateWith(context.Background(), cfg, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 group(s) failed")
	assert.FileExists(t, filepath.Join(outDir, "requests/api/auth/PostLogout.ts"))
}

func TestGeneratePipeline_FailedWriteSkipsCleanup(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", loginSpecYAML)
	outDir := filepath.Join(dir, "out")

	cfg := &GenerateConfig{Groups: []generate.Group{{URL: specPath}}, Out: outDir, Indent: 2, Divider: "."}
	require.NoError(t, runGenerateWith(context.Background(), cfg, quietLogger()))

	// A non-empty directory in place of a generated file makes its rewrite fail.
	blocked := filepath.Join(outDir, "models", "LoginResponse.ts")
	require.NoError(t, os.Remove(blocked))
	require.NoError(t, os.MkdirAll(filepath.Join(blocked, "sub"), 0o755))

	cfg.Groups = []generate.Group{{URL: specPath, Paths: []string{"/auth/Login"}}}
	err := runGenerateWith(context.Background(), cfg, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 write(s) failed")

	assert.FileExists(t, filepath.Join(outDir, "requests/api/auth/PostLogout.ts"), "stale files survive a partial run")
	m, err := output.ReadManifest(outDir)
	require.NoError(t, err)
	assert.Len(t, m.Files, 4, "manifest is not rewritten")
}
