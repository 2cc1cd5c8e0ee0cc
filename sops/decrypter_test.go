package sops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const encryptedDefinition = `
docker_repository: ENC[AES256_GCM,data:abc123,type:str]
docker_app_args:
    web:
        - ENC[AES256_GCM,data:def456,type:str]
sops:
    kms:
        - arn: arn:aws:kms:eu-west-1:123456789012:key/123
          created_at: "2024-02-10T12:00:00Z"
          enc: abc123
    gcp_kms: []
    azure_kv: []
    lastmodified: "2024-02-10T12:00:00Z"
    mac: abc123
    version: 3.9.4
`

func TestIsEncrypted(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{name: "plain definition", content: "docker_apps: [web]\ndocker_tag: v1\n", expected: false},
		{name: "encrypted definition", content: encryptedDefinition, expected: true},
		{name: "sops below the top level", content: "hosts:\n  - name: h1\n    sops: true\n", expected: false},
		{name: "not a mapping", content: "- sops\n", expected: false},
		{name: "invalid yaml", content: "docker_apps: [web\n", expected: false},
		{name: "empty", content: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsEncrypted([]byte(tt.content)))
		})
	}
}

func TestDecryptYAML(t *testing.T) {
	plain := []byte("docker_apps: [web]\ndocker_args: [\"--verbose\"]\n")

	result, err := DecryptYAML(plain)
	assert.NoError(t, err)
	assert.Equal(t, plain, result)

	// No key service is reachable from tests
	_, err = DecryptYAML([]byte(encryptedDefinition))
	assert.ErrorContains(t, err, "failed to decrypt SOPS-encrypted definition")
}
