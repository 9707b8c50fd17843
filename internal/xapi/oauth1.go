package xapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is what OAuth 1.0a specifies
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const nonceBytes = 16

// OAuth1Signer produces OAuth 1.0a Authorization headers for user-context
// write requests. Nonce and timestamp generation are injectable so signatures
// can be verified in tests.
type OAuth1Signer struct {
	consumerKey    string
	consumerSecret string
	accessToken    string
	accessSecret   string

	nonce     func() string
	timestamp func() string
}

func NewOAuth1Signer(consumerKey, consumerSecret, accessToken, accessSecret string) *OAuth1Signer {
	return &OAuth1Signer{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		accessToken:    accessToken,
		accessSecret:   accessSecret,
		nonce:          randomNonce,
		timestamp: func() string {
			return strconv.FormatInt(time.Now().Unix(), 10)
		},
	}
}

// AuthorizationHeader signs the request line and returns the full header
// value. Request bodies are JSON and therefore excluded from the signature
// base; only oauth parameters and URL query parameters participate.
func (s *OAuth1Signer) AuthorizationHeader(method, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing request url: %w", err)
	}

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.consumerKey,
		"oauth_nonce":            s.nonce(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        s.timestamp(),
		"oauth_token":            s.accessToken,
		"oauth_version":          "1.0",
	}

	allParams := make(map[string]string, len(oauthParams))
	for k, v := range oauthParams {
		allParams[k] = v
	}

	for k, vs := range parsed.Query() {
		if len(vs) > 0 {
			allParams[k] = vs[0]
		}
	}

	baseURL := parsed.Scheme + "://" + parsed.Host + parsed.Path
	signatureBase := strings.ToUpper(method) + "&" + percentEncode(baseURL) + "&" + percentEncode(paramString(allParams))
	signingKey := percentEncode(s.consumerSecret) + "&" + percentEncode(s.accessSecret)

	mac := hmac.New(sha1.New, []byte(signingKey))
	mac.Write([]byte(signatureBase))
	oauthParams["oauth_signature"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	keys := make([]string, 0, len(oauthParams))
	for k := range oauthParams {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", percentEncode(k), percentEncode(oauthParams[k])))
	}

	return "OAuth " + strings.Join(parts, ", "), nil
}

func paramString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}

	return strings.Join(pairs, "&")
}

// percentEncode implements RFC 3986 encoding as OAuth requires, leaving only
// unreserved characters untouched.
func percentEncode(s string) string {
	var b strings.Builder

	for _, c := range []byte(s) {
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}

	return b.String()
}

func randomNonce() string {
	buf := make([]byte, nonceBytes)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}
