// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-widgets/internal/platform/config"
)

/*
TestLoad_Defaults verifies defaults are applied when only required vars are set.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CMS_BASE_URL", "http://cms.local")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 12, cfg.CommentsPerPage)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.EnableComments)
	assert.True(t, cfg.EnableRatings)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.AllowedOrigins())
}

/*
TestLoad_FeatureFlags checks the kill switches are read from the environment.
*/
func TestLoad_FeatureFlags(t *testing.T) {
	t.Setenv("CMS_BASE_URL", "http://cms.local")
	t.Setenv("ENABLE_COMMENTS", "false")
	t.Setenv("EXTRA_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.EnableComments)
	assert.True(t, cfg.EnableRatings)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

/*
TestLoad_Invalid covers the validation failures.
*/
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing_base_url", map[string]string{"CMS_BASE_URL": ""}},
		{"relative_base_url", map[string]string{"CMS_BASE_URL": "/api"}},
		{"zero_page_size", map[string]string{"CMS_BASE_URL": "http://cms.local", "COMMENTS_PER_PAGE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
