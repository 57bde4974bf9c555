package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"bookreviews-backend/pkg/api"
	"bookreviews-backend/pkg/auth"
)

// Headers set by the Lambda entrypoint after the API Gateway JWT authorizer
// has validated the token. The entrypoint strips any client-supplied copies
// before injecting them, and the middleware only trusts them when the process
// is actually hosted by the Lambda runtime. Anywhere else they are ordinary
// client input and are ignored.
const (
	HeaderGatewayAuthorized = "X-API-Gateway-Authorized"
	HeaderClaimSubject      = "X-Claim-Subject"
	HeaderClaimUsername     = "X-Claim-Username"
)

// runningInLambda reports whether the Lambda runtime hosts this process
func runningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// StripClaimHeaders removes every incoming copy of the claim passthrough
// headers, whatever their casing. The Lambda entrypoint calls it before
// injecting the verified claims, so the headers never carry client input.
func StripClaimHeaders(headers map[string]string) {
	for name := range headers {
		switch strings.ToLower(name) {
		case strings.ToLower(HeaderGatewayAuthorized),
			strings.ToLower(HeaderClaimSubject),
			strings.ToLower(HeaderClaimUsername):
			delete(headers, name)
		}
	}
}

// Authenticate requires a verified caller identity. Requests without a valid
// bearer token (or pre-verified gateway claims) are rejected with 401 before
// the handler runs.
func Authenticate(verifier auth.Verifier, logger *zap.Logger) func(next http.Handler) http.Handler {
	trustGateway := runningInLambda()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := resolveClaims(r, verifier, trustGateway)
			if err != nil {
				logger.Debug("Authentication failed",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				api.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// MaybeAuthenticate injects claims when a valid token is present but lets
// anonymous requests through. Used on the create route, where identity is
// optional metadata rather than an authorization requirement.
func MaybeAuthenticate(verifier auth.Verifier, logger *zap.Logger) func(next http.Handler) http.Handler {
	trustGateway := runningInLambda()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := resolveClaims(r, verifier, trustGateway)
			if err != nil {
				if !errors.Is(err, errNoToken) {
					logger.Debug("Ignoring invalid token on optional-auth route",
						zap.String("path", r.URL.Path),
						zap.Error(err),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

var errNoToken = errors.New("no bearer token")

// resolveClaims extracts the caller identity. Claims the gateway authorizer
// already verified take precedence over local token validation, but only on
// the Lambda path where the entrypoint controls the claim headers.
func resolveClaims(r *http.Request, verifier auth.Verifier, trustGateway bool) (*auth.Claims, error) {
	if trustGateway && r.Header.Get(HeaderGatewayAuthorized) == "true" {
		subject := r.Header.Get(HeaderClaimSubject)
		if subject == "" {
			return nil, errors.New("missing subject from gateway authorizer")
		}
		return &auth.Claims{
			Subject:  subject,
			Username: r.Header.Get(HeaderClaimUsername),
		}, nil
	}

	token := extractToken(r)
	if token == "" {
		return nil, errNoToken
	}

	return verifier.Verify(r.Context(), token)
}

// extractToken pulls the bearer token from the Authorization header. A bare
// token without the Bearer prefix is accepted, as the browser client sends
// the raw ID token.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		authHeader = r.Header.Get("authorization")
	}
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return authHeader
}
