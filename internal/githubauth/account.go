package githubauth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/repokeeper/internal/shared"
)

const (
	accountUsernameMissingMessageConstant = "account username must be provided"
	accountTokenMissingMessageConstant    = "no authentication token available for account %s"
	tokenSourceResolveTemplateConstant    = "resolving token for account %s: %w"
)

// AccountConfiguration declares how to authenticate one account.
type AccountConfiguration struct {
	Username    string `mapstructure:"username"`
	TokenSource string `mapstructure:"token_source"`
}

// AccountResolver turns account configurations into credential handles.
type AccountResolver struct {
	tokenResolver *TokenResolver
}

// NewAccountResolver builds an account resolver backed by the provided
// token resolver, defaulting to process environment and filesystem lookups.
func NewAccountResolver(tokenResolver *TokenResolver) *AccountResolver {
	if tokenResolver == nil {
		tokenResolver = NewTokenResolver(nil, nil)
	}
	return &AccountResolver{tokenResolver: tokenResolver}
}

// ResolveAccount produces a credential handle for the configured account.
// An explicit token source wins; otherwise the conventional environment
// variables are consulted in preference order.
func (resolver *AccountResolver) ResolveAccount(configuration AccountConfiguration) (shared.AccountHandle, error) {
	username := strings.TrimSpace(configuration.Username)
	if len(username) == 0 {
		return shared.AccountHandle{}, errors.New(accountUsernameMissingMessageConstant)
	}

	if len(strings.TrimSpace(configuration.TokenSource)) > 0 {
		sourceConfiguration, parseError := ParseTokenSource(configuration.TokenSource)
		if parseError != nil {
			return shared.AccountHandle{}, fmt.Errorf(tokenSourceResolveTemplateConstant, username, parseError)
		}
		tokenValue, resolveError := resolver.tokenResolver.ResolveToken(sourceConfiguration)
		if resolveError != nil {
			return shared.AccountHandle{}, fmt.Errorf(tokenSourceResolveTemplateConstant, username, resolveError)
		}
		return shared.AccountHandle{Username: username, Token: tokenValue}, nil
	}

	if tokenValue, found := ResolveToken(nil); found {
		return shared.AccountHandle{Username: username, Token: tokenValue}, nil
	}

	return shared.AccountHandle{}, fmt.Errorf(accountTokenMissingMessageConstant, username)
}
