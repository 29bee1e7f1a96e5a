// Package tsa obtains RFC 3161 trust timestamps over content digests from a
// time-stamping authority.
package tsa

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/asn1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var oidSHA256 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1} //nolint:gochecknoglobals // protocol constant

type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.RawValue `asn1:"optional"`
}

type messageImprint struct {
	HashAlgorithm algorithmIdentifier
	HashedMessage []byte
}

type timeStampReq struct {
	Version        int
	MessageImprint messageImprint
	CertReq        bool `asn1:"optional"`
}

// Client talks timestamp-query/timestamp-reply to one TSA endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// New creates a Client for the given TSA URL.
func New(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{url: url, httpClient: httpClient}
}

// Timestamp requests an RFC 3161 token over a hex SHA-256 digest. The
// returned serial is the hex digest of the DER token, a stable reference
// for the stored token.
func (c *Client) Timestamp(ctx context.Context, hashHex string) ([]byte, string, error) {
	reqDER, err := buildRequest(hashHex)
	if err != nil {
		return nil, "", fmt.Errorf("tsa.Timestamp: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqDER))
	if err != nil {
		return nil, "", fmt.Errorf("tsa.Timestamp: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/timestamp-query")
	httpReq.Header.Set("Accept", "application/timestamp-reply")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("tsa.Timestamp: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("tsa.Timestamp: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("tsa.Timestamp: tsa returned status %d", resp.StatusCode)
	}
	if len(body) == 0 {
		return nil, "", fmt.Errorf("tsa.Timestamp: empty tsa response")
	}

	sum := sha256.Sum256(body)
	return body, hex.EncodeToString(sum[:]), nil
}

func buildRequest(hashHex string) ([]byte, error) {
	digest, err := hex.DecodeString(strings.TrimSpace(hashHex))
	if err != nil {
		return nil, fmt.Errorf("invalid target hash: %w", err)
	}
	if len(digest) != sha256.Size {
		return nil, fmt.Errorf("invalid target hash length: %d", len(digest))
	}

	req := timeStampReq{
		Version: 1,
		MessageImprint: messageImprint{
			HashAlgorithm: algorithmIdentifier{
				Algorithm: oidSHA256,
				Parameters: asn1.RawValue{
					Class: asn1.ClassUniversal,
					Tag:   asn1.TagNull,
				},
			},
			HashedMessage: digest,
		},
		CertReq: true,
	}

	return asn1.Marshal(req)
}
