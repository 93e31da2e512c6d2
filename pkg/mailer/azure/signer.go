package azure

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	queryPathTemplate = "/emails:send?api-version=%s"

	// signedHeaders is fixed by the service's HMAC verification.
	signedHeaders = "x-ms-date;host;x-ms-content-sha256"
	authPrefix    = "HMAC-SHA256 SignedHeaders=" + signedHeaders + "&Signature="

	headerDate        = "x-ms-date"
	headerContentHash = "x-ms-content-sha256"
)

func queryPath(apiVersion string) string {
	return fmt.Sprintf(queryPathTemplate, apiVersion)
}

// hostOf strips a leading scheme from the endpoint.
func hostOf(endpoint string) string {
	return strings.TrimPrefix(endpoint, "https://")
}

func requestURL(endpoint, apiVersion string) string {
	base := endpoint
	if !strings.HasPrefix(endpoint, "https://") {
		base = "https://" + endpoint
	}
	return base + queryPath(apiVersion)
}

func contentHash(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// stringToSign builds "POST\n<path>\n<date>;<host>;<hash>".
func stringToSign(path, timestamp, host, hash string) string {
	return http.MethodPost + "\n" + path + "\n" + timestamp + ";" + host + ";" + hash
}

func sign(key []byte, data string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// decodeKey accepts padded and unpadded standard base64.
func decodeKey(key string) ([]byte, error) {
	if raw, err := base64.StdEncoding.DecodeString(key); err == nil {
		return raw, nil
	}
	raw, err := base64.RawStdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return raw, nil
}

// signHeaders returns the headers that authenticate body at time now.
// They must not be reused: the timestamp is part of the signature.
func signHeaders(key []byte, endpoint, apiVersion string, body []byte, now time.Time) http.Header {
	timestamp := now.UTC().Format(http.TimeFormat)
	hash := contentHash(body)
	signature := sign(key, stringToSign(queryPath(apiVersion), timestamp, hostOf(endpoint), hash))

	h := make(http.Header, 4)
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", authPrefix+signature)
	h.Set(headerDate, timestamp)
	h.Set(headerContentHash, hash)
	return h
}
