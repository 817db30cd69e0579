package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// Supported narrative locales, in matcher preference order.
const (
	LocaleEnglish = "en"
	LocaleSpanish = "es"
)

var localeMatcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})

// spanishCountries are the ISO codes where Spanish is the default locale when
// the request carries no language preference.
var spanishCountries = map[string]struct{}{
	"AR": {}, "BO": {}, "CL": {}, "CO": {}, "CR": {}, "CU": {}, "DO": {}, "EC": {}, "ES": {},
	"GQ": {}, "GT": {}, "HN": {}, "MX": {}, "NI": {}, "PA": {}, "PE": {}, "PR": {}, "PY": {},
	"SV": {}, "UY": {}, "VE": {},
}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N stores the narrative locale and best-effort country in the request context.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := detectLocale(r, defaultLocale, country)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, strings.ToUpper(country))
			}
			w.Header().Set("Content-Language", locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, country string) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return normalizeLocale(v)
	}
	if v := parseAcceptLanguage(r.Header.Get("Accept-Language")); v != "" {
		return v
	}
	if _, ok := spanishCountries[strings.ToUpper(country)]; ok {
		return LocaleSpanish
	}
	if country != "" {
		return LocaleEnglish
	}
	if fallback != "" {
		return normalizeLocale(fallback)
	}
	return LocaleEnglish
}

// parseAcceptLanguage matches the header against the supported locales and
// returns "" when the header is empty or unparsable.
func parseAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return LocaleEnglish
	}
	if idx == 1 {
		return LocaleSpanish
	}
	return LocaleEnglish
}

func normalizeLocale(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return LocaleEnglish
	}
	if base, _ := tag.Base(); base.String() == LocaleSpanish {
		return LocaleSpanish
	}
	return LocaleEnglish
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return LocaleEnglish
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort ISO country code for the given request.
// Edge headers win, then the region subtag of the requested locale, then the
// GeoIP lookup.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if region := localeRegion(r.Header.Get("X-Locale")); region != "" {
		return region
	}
	if region := localeRegion(r.Header.Get("Accept-Language")); region != "" {
		return region
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

func localeRegion(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		token := strings.TrimSpace(strings.Split(part, ";")[0])
		if token == "" {
			continue
		}
		if idx := strings.IndexAny(token, "-_"); idx > 0 && idx < len(token)-1 {
			return strings.ToUpper(token[idx+1:])
		}
	}
	return ""
}
