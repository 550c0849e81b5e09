package fetcher

import (
	"bytes"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// DetectEncoding returns the charset of body. A byte order mark or a
// Content-Type charset parameter wins. Otherwise a body that is valid UTF-8
// throughout, or any JSON body, is utf-8, and only then does a <meta>
// declaration or the windows-1252 fallback apply.
func DetectEncoding(body []byte, contentType string) string {
	_, name, certain := charset.DetermineEncoding(body, contentType)
	if certain && name != "" {
		return name
	}
	if utf8.Valid(bytes.TrimPrefix(body, utf8BOM)) || isJSON(contentType) {
		return "utf-8"
	}
	if name == "" {
		return "utf-8"
	}
	return name
}

// isJSON reports whether contentType names a JSON media type, which is
// always UTF-8 (RFC 8259)
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// ConvertToUTF8 transcodes body to UTF-8 and drops a leading UTF-8 BOM.
// Unknown or undecodable charsets leave the body untouched.
func ConvertToUTF8(body []byte, contentType string) []byte {
	name := DetectEncoding(body, contentType)
	if name == "utf-8" {
		return bytes.TrimPrefix(body, utf8BOM)
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return body
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(body), enc.NewDecoder()))
	if err != nil {
		return body
	}
	return decoded
}
