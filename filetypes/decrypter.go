package filetypes

import "github.com/GlintPay/dockercluster/sops"

type Decrypter interface {
	Decrypt(data []byte) ([]byte, error)
}

type SopsDecrypter struct{}

func (SopsDecrypter) Decrypt(data []byte) ([]byte, error) {
	return sops.DecryptYAML(data)
}
