package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const testPSSH = "AAAAU3Bzc2gAAAAA7e+LqXnWSs6jyCfc1R0h7QAAADMIARIQQATcHlpOAIf1Vdda4clXIBoHc3BvdGlmeSIUQATcHlpOAIf1Vdda4clXIDt20eY="

type servers struct {
	api        *httptest.Server
	license    *httptest.Server
	apiCalls   atomic.Int32
	licCalls   atomic.Int32
	licenseGot atomic.Value
}

func newServers(t *testing.T, api func(n int32, body gjson.Result, w http.ResponseWriter), license http.HandlerFunc) *servers {
	t.Helper()
	s := &servers{}

	s.api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := s.apiCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		if r.Header.Get("X-API-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":true,"code":401,"message":"bad key"}`)
			return
		}
		api(n, gjson.ParseBytes(body), w)
	}))
	t.Cleanup(s.api.Close)

	s.license = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.licCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		s.licenseGot.Store(body)
		license(w, r)
	}))
	t.Cleanup(s.license.Close)

	return s
}

func (s *servers) args(extra ...string) []string {
	return append([]string{
		"-api_url", s.api.URL,
		"-url", s.license.URL,
		"-pssh", testPSSH,
		"-auth", "secret",
	}, extra...)
}

func clearEnv(t *testing.T) {
	for _, name := range []string{"API_URL", "API_KEY", "API_TIMEOUT", "LICENSE_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv("GETWVKEYS_"+name, "")
	}
	t.Setenv("GETWVKEYS_API_TIMEOUT", "5s")
	t.Setenv("GETWVKEYS_LICENSE_TIMEOUT", "5s")
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"--version", "-url", "http://x", "-f"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Equal(t, "GetWVKeys Generic v5.1 for API Version 5\n", stdout.String())

	stdout.Reset()
	code = run([]string{"-V"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Equal(t, "GetWVKeys Generic v5.1 for API Version 5\n", stdout.String())
}

func TestRunFullExchange(t *testing.T) {
	clearEnv(t)

	s := newServers(t, func(n int32, body gjson.Result, w http.ResponseWriter) {
		switch n {
		case 1:
			_, _ = io.WriteString(w, `{"session_id":"abc","challenge":"Zm9v"}`)
		case 2:
			if body.Get("session_id").String() != "abc" || body.Get("response").String() != "YmFy" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = io.WriteString(w, `{"keys":["kid1:key1"],"session_id":"abc"}`)
		}
	}, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "bar")
	})

	var stdout, stderr bytes.Buffer
	code := run(s.args(), strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "Script Version: 5.1")
	assert.Contains(t, stdout.String(), "[+] Keys:\n--key kid1:key1\n")
	assert.NotContains(t, stdout.String(), "Session ID")
	assert.Equal(t, int32(2), s.apiCalls.Load())
	assert.Equal(t, int32(1), s.licCalls.Load())
	assert.Equal(t, []byte("foo"), s.licenseGot.Load())
}

func TestRunCacheHit(t *testing.T) {
	clearEnv(t)

	s := newServers(t, func(_ int32, _ gjson.Result, w http.ResponseWriter) {
		w.Header().Set("X-Cache", "HIT")
		_, _ = io.WriteString(w, `{"keys":[{"key":"k1:v1"}]}`)
	}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	var stdout, stderr bytes.Buffer
	code := run(s.args(), strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "[+] Keys (from cache):\n--key k1:v1\n")
	assert.Equal(t, int32(1), s.apiCalls.Load())
	assert.Equal(t, int32(0), s.licCalls.Load())
}

func TestRunLicenseServerFailure(t *testing.T) {
	clearEnv(t)

	s := newServers(t, func(_ int32, _ gjson.Result, w http.ResponseWriter) {
		_, _ = io.WriteString(w, `{"session_id":"abc","challenge":"Zm9v"}`)
	}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "server error")
	})

	var stdout, stderr bytes.Buffer
	code := run(s.args(), strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[-] failed to get license: [500] server error")
	assert.Equal(t, int32(1), s.apiCalls.Load())
	assert.Equal(t, int32(1), s.licCalls.Load())
	assert.NotContains(t, stdout.String(), "--key")
}

func TestRunAPIError(t *testing.T) {
	clearEnv(t)

	s := newServers(t, func(_ int32, _ gjson.Result, w http.ResponseWriter) {
		t.Error("api handler must not be reached with a wrong key")
	}, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("license server must not be called")
	})

	args := s.args()
	args[len(args)-1] = "wrong"

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[-] failed to generate license request: [401] bad key")
	assert.Equal(t, int32(0), s.licCalls.Load())
}

func TestRunPromptsForMissing(t *testing.T) {
	clearEnv(t)

	s := newServers(t, func(_ int32, _ gjson.Result, w http.ResponseWriter) {
		w.Header().Set("X-Cache", "HIT")
		_, _ = io.WriteString(w, `{"keys":[{"key":"k1:v1"}]}`)
	}, func(w http.ResponseWriter, _ *http.Request) {})

	stdin := strings.NewReader(testPSSH + "\nsecret\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-api_url", s.api.URL, "-url", s.license.URL}, stdin, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "Enter PSSH: Enter GetWVKeys API Key: ")
	assert.NotContains(t, stdout.String(), "Enter License URL: ")
	assert.Contains(t, stdout.String(), "--key k1:v1")
}

func TestRunAPIKeyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GETWVKEYS_API_KEY", "secret")

	s := newServers(t, func(_ int32, _ gjson.Result, w http.ResponseWriter) {
		w.Header().Set("X-Cache", "HIT")
		_, _ = io.WriteString(w, `{"keys":[{"key":"k1:v1"}]}`)
	}, func(w http.ResponseWriter, _ *http.Request) {})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-api_url", s.api.URL, "-url", s.license.URL, "-pssh", testPSSH}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.NotContains(t, stdout.String(), "Enter GetWVKeys API Key")
}

func TestRunPromptEOF(t *testing.T) {
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-url", "http://license"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[-] read \"Enter PSSH:\"")
}

func TestRunNoArgumentsPrintsHelp(t *testing.T) {
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Usage: getwvkeys")
	assert.Contains(t, stdout.String(), "Enter License URL: ")
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run([]string{"--nope"}, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"-H", "no-colon"}, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"stray"}, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, 0, run([]string{"-h"}, strings.NewReader(""), &stdout, &stderr))
}

func TestParseFlags(t *testing.T) {
	o, _, err := parseFlags([]string{
		"-url", "https://license.example",
		"-pssh", " " + testPSSH + " ",
		"-api_key", "k",
		"--buildinfo", "bi",
		"-v", "--force",
		"-H", "Authorization: Bearer x",
		"--header", "X-Extra:1",
	}, io.Discard)
	require.NoError(t, err)

	p := o.params()
	assert.Equal(t, "https://license.example", p.LicenseURL)
	assert.Equal(t, testPSSH, p.PSSH)
	assert.Equal(t, "k", p.APIKey)
	assert.Equal(t, "bi", p.BuildInfo)
	assert.True(t, p.Verbose)
	assert.True(t, p.Force)
	assert.Equal(t, map[string]string{"Authorization": "Bearer x", "X-Extra": "1"}, p.Headers)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "flag", firstNonEmpty("flag", "env", "build"))
	assert.Equal(t, "env", firstNonEmpty("", "env", "build"))
	assert.Equal(t, "build", firstNonEmpty("", "", "build"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
