package setup

import (
	"context"
	"testing"

	"github.com/GlintPay/dockercluster/backend"
	"github.com/GlintPay/dockercluster/backend/file"
	"github.com/GlintPay/dockercluster/backend/git"
	"github.com/GlintPay/dockercluster/config"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	tests := []example{
		{
			name:      "default",
			appConfig: config.ApplicationConfiguration{},
			want:      []string{"git", "file"},
		},
		{
			name:      "no-git",
			appConfig: config.ApplicationConfiguration{Git: config.GitConfig{Disabled: true}},
			want:      []string{"file"},
		},
		{
			name:      "no-file",
			appConfig: config.ApplicationConfiguration{File: config.FileConfig{Disabled: true}},
			want:      []string{"git"},
		},
		{
			name: "file-first",
			appConfig: config.ApplicationConfiguration{
				Git:  config.GitConfig{Order: 10},
				File: config.FileConfig{Order: 1},
			},
			want: []string{"file", "git"},
		},
		{
			name: "nothing",
			appConfig: config.ApplicationConfiguration{
				Git:  config.GitConfig{Disabled: true},
				File: config.FileConfig{Disabled: true},
			},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			got, err := Init(context.Background(), tt.appConfig)
			if (err != nil) != tt.wantErr {
				t.Errorf("Init() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			assert.Equal(t, tt.want, kinds(got))
		})
	}
}

func kinds(bs backend.Backends) []string {
	var result []string
	for _, each := range bs {
		switch each.(type) {
		case *git.Backend:
			result = append(result, "git")
		case *file.Backend:
			result = append(result, "file")
		}
	}
	return result
}

type example struct {
	name      string
	appConfig config.ApplicationConfiguration
	want      []string
	wantErr   bool
}
