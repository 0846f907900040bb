package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPublic = `
store:
  base_url: "https://store.example.com/api/v1"
  timeout: 5s
  rps: 5
  burst: 5
listing:
  page_size: 6
  default_capacity: 10
  cache_ttl: 30s
  cache_refresh_interval: 1m
map:
  kakao_base_url: "https://dapi.kakao.com"
  default_lat: 37.5665
  default_lng: 126.9780
  default_radius: 3000
  default_keyword: "맛집"
timezone: "Asia/Seoul"
server:
  port: "8080"
  read_timeout: 10s
  write_timeout: 10s
  templates_path: "templates"
  static_path: "static"
`

func writeConfig(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	if private != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	}
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TL_SESSION_SECRET", "KAKAO_REST_KEY", "KAKAO_JS_KEY", "TL_STORE_BASE_URL", "PORT", "TL_SECURE_COOKIES"} {
		t.Setenv(key, "")
	}
}

func TestMustLoad(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, validPublic, "session_secret: 'a-long-enough-secret'\nkakao_rest_key: 'rest'\n")

	cfg := MustLoad(dir)

	assert.Equal(t, 6, cfg.Public.Listing.PageSize)
	assert.Equal(t, 10, cfg.Public.Listing.DefaultCapacity)
	assert.Equal(t, 5*time.Second, cfg.Public.Store.Timeout)
	assert.Equal(t, "맛집", cfg.Public.Map.DefaultKeyword)
	assert.Equal(t, "rest", cfg.Private.KakaoRestKey)
	assert.Equal(t, "Asia/Seoul", cfg.Public.Location().String())
}

func TestMustLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TL_SESSION_SECRET", "secret-from-the-environment")
	t.Setenv("TL_STORE_BASE_URL", "http://localhost:3000")
	t.Setenv("TL_SECURE_COOKIES", "true")
	dir := writeConfig(t, validPublic, "")

	cfg := MustLoad(dir)

	assert.Equal(t, "secret-from-the-environment", cfg.Private.SessionSecret)
	assert.Equal(t, "http://localhost:3000", cfg.Public.Store.BaseURL)
	assert.True(t, cfg.Public.Security.SecureCookies)
}

func TestMustLoad_RequiredFields(t *testing.T) {
	clearEnv(t)

	t.Run("missing session secret", func(t *testing.T) {
		dir := writeConfig(t, validPublic, "kakao_rest_key: 'rest'\n")
		assert.Panics(t, func() { MustLoad(dir) })
	})

	t.Run("missing public file", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(t.TempDir()) })
	})

	t.Run("missing store section", func(t *testing.T) {
		public := "listing:\n  page_size: 6\n"
		dir := writeConfig(t, public, "session_secret: 'a-long-enough-secret'\n")
		assert.Panics(t, func() { MustLoad(dir) })
	})
}

func TestSessionKey(t *testing.T) {
	a := &Config{Private: Private{SessionSecret: "a-long-enough-secret"}}
	b := &Config{Private: Private{SessionSecret: "another-long-secret"}}

	assert.Len(t, a.SessionKey(), 32)
	assert.Equal(t, a.SessionKey(), a.SessionKey())
	assert.NotEqual(t, a.SessionKey(), b.SessionKey())
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Public{Timezone: "Not/AZone"}.Location())
}
