package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"public url", Config{PublicURL: "https://cdn.example.com/", Bucket: "img"}, "https://cdn.example.com/posts/a.png"},
		{"plain endpoint", Config{Endpoint: "minio:9000", Bucket: "img"}, "http://minio:9000/img/posts/a.png"},
		{"ssl endpoint", Config{Endpoint: "s3.example.com", Bucket: "img", UseSSL: true}, "https://s3.example.com/img/posts/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectURL(tt.cfg, "posts/a.png"))
		})
	}
}

func TestNewStripsScheme(t *testing.T) {
	s, err := New(Config{Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "img"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/img/x.jpg", s.URL("x.jpg"))
}
