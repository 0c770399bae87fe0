package core

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Cache key contract. Keys are deterministic functions of the lookup
// parameters and all live in the single configured cache group.
func AccessTokenCacheKey(token string) string {
	return "getAccessToken:" + token
}

func ClientDetailsCacheKey(clientID string) string {
	return "getClientDetails:" + clientID
}

func PublicKeyCacheKey(clientID string) string {
	return "findPublicKeyByClientId:" + clientID
}

type cachedClient struct {
	Client Client
	Found  bool
}

type cachedPublicKey struct {
	Key   PublicKey
	Found bool
}

type cachedAccessToken struct {
	Token AccessToken
	Found bool
}

// GetPublicKey returns the verification key material registered for the
// client. Absence is not an error and is cached like any other result.
func (s *Service) GetPublicKey(ctx context.Context, clientID string) (string, bool, error) {
	record, found, err := s.findPublicKeyByClientID(ctx, clientID)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	return record.PublicKey, true, nil
}

// GetEncryptionAlgorithm returns the encryption-algorithm label of the
// client's public key record. Shares the cached lookup with GetPublicKey.
func (s *Service) GetEncryptionAlgorithm(ctx context.Context, clientID string) (string, bool, error) {
	record, found, err := s.findPublicKeyByClientID(ctx, clientID)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	return record.EncryptionAlgorithm, true, nil
}

func (s *Service) findPublicKeyByClientID(ctx context.Context, clientID string) (PublicKey, bool, error) {
	value, err := s.cache.GetOrFetch(ctx, PublicKeyCacheKey(clientID), func(ctx context.Context) (any, error) {
		record, found, fetchErr := s.publicKeys.GetByClientID(ctx, clientID)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return cachedPublicKey{Key: record, Found: found}, nil
	})
	if err != nil {
		return PublicKey{}, false, s.mapError(err)
	}
	cached, ok := value.(cachedPublicKey)
	if !ok {
		record, found, fetchErr := s.publicKeys.GetByClientID(ctx, clientID)
		if fetchErr != nil {
			return PublicKey{}, false, s.mapError(fetchErr)
		}
		return record, found, nil
	}
	return cached.Key, cached.Found, nil
}

// GetClientDetails returns the client registration. The negative result for
// an unknown client is cached to avoid repeated store hits.
func (s *Service) GetClientDetails(ctx context.Context, clientID string) (Client, bool, error) {
	value, err := s.cache.GetOrFetch(ctx, ClientDetailsCacheKey(clientID), func(ctx context.Context) (any, error) {
		client, found, fetchErr := s.clients.GetByClientID(ctx, clientID)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return cachedClient{Client: client, Found: found}, nil
	})
	if err != nil {
		return Client{}, false, s.mapError(err)
	}
	cached, ok := value.(cachedClient)
	if !ok {
		client, found, fetchErr := s.clients.GetByClientID(ctx, clientID)
		if fetchErr != nil {
			return Client{}, false, s.mapError(fetchErr)
		}
		return client, found, nil
	}
	return cached.Client, cached.Found, nil
}

// CheckRestrictedGrantType reports whether the client may use the grant
// type. A client without a configured allowlist permits every grant type.
func (s *Service) CheckRestrictedGrantType(ctx context.Context, clientID string, grantType string) (bool, error) {
	client, found, err := s.GetClientDetails(ctx, clientID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return client.AllowsGrantType(grantType), nil
}

// IsPublicClient reports whether the client exists and carries no secret.
// Unknown clients are not public; that is a false, not an error.
func (s *Service) IsPublicClient(ctx context.Context, clientID string) (bool, error) {
	client, found, err := s.GetClientDetails(ctx, clientID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return client.IsPublic(), nil
}

// GetAccessToken returns the token record when it exists and has not
// expired. Expired tokens are indistinguishable from absent ones; both
// negative outcomes are cached until the next mutation invalidates them.
func (s *Service) GetAccessToken(ctx context.Context, token string) (AccessToken, bool, error) {
	key := AccessTokenCacheKey(token)
	record, found, err := s.cachedAccessToken(ctx, key, token)
	if err != nil {
		return AccessToken{}, false, err
	}
	if found && !record.Valid(s.now()) {
		// The cached entry outlived the token. Refresh it so the negative
		// outcome is what stays cached.
		if deleteErr := s.cache.Delete(ctx, key); deleteErr != nil {
			s.logger.Warn("access cache invalidation failed", "key", key, "error", deleteErr)
		}
		record, found, err = s.cachedAccessToken(ctx, key, token)
		if err != nil {
			return AccessToken{}, false, err
		}
		if found && !record.Valid(s.now()) {
			return AccessToken{}, false, nil
		}
	}
	if !found {
		return AccessToken{}, false, nil
	}
	return record, true, nil
}

func (s *Service) cachedAccessToken(ctx context.Context, key string, token string) (AccessToken, bool, error) {
	value, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		record, found, fetchErr := s.tokens.GetByToken(ctx, token)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if !found || !record.Valid(s.now()) {
			return cachedAccessToken{Found: false}, nil
		}
		return cachedAccessToken{Token: record, Found: true}, nil
	})
	if err != nil {
		return AccessToken{}, false, s.mapError(err)
	}
	cached, ok := value.(cachedAccessToken)
	if !ok {
		record, found, fetchErr := s.tokens.GetByToken(ctx, token)
		if fetchErr != nil {
			return AccessToken{}, false, s.mapError(fetchErr)
		}
		return record, found, nil
	}
	return cached.Token, cached.Found, nil
}

// SetAccessToken creates a new token record. The operation is create-only:
// an existing record for the same token value is a conflict, whether caught
// by the pre-check or by the store's uniqueness enforcement.
func (s *Service) SetAccessToken(ctx context.Context, token string, clientID string, userID int64, expiresEpoch int64, scope string) error {
	if token == "" {
		return badInputError("core: access token value is required")
	}
	existing, found, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		return s.mapError(err)
	}
	if found {
		return conflictError(fmt.Sprintf("core: access token %q already exists (expires %s)", token, existing.ExpiresAt.Format(time.RFC3339)))
	}

	// A cached negative lookup for this value would outlive the insert.
	key := AccessTokenCacheKey(token)
	if deleteErr := s.cache.Delete(ctx, key); deleteErr != nil {
		s.logger.Warn("access cache invalidation failed", "key", key, "error", deleteErr)
	}

	record := AccessToken{
		Token:     token,
		ClientID:  clientID,
		UserID:    userID,
		ExpiresAt: time.Unix(expiresEpoch, 0).UTC(),
		Scope:     scope,
		CreatedAt: s.now(),
	}
	if _, createErr := s.tokens.Create(ctx, record); createErr != nil {
		return s.mapError(createErr)
	}
	return nil
}

// ExpireAccessToken revokes a token by setting its expiration to now. The
// cache entry is invalidated before the write so a concurrent reader cannot
// observe a cache hit for a token whose expiration has committed. A token
// that matches no rows is an operational error, not a silent no-op.
func (s *Service) ExpireAccessToken(ctx context.Context, token string) error {
	key := AccessTokenCacheKey(token)
	if deleteErr := s.cache.Delete(ctx, key); deleteErr != nil {
		s.logger.Warn("access cache invalidation failed", "key", key, "error", deleteErr)
	}
	affected, err := s.tokens.ExpireByToken(ctx, token, s.now())
	if err != nil {
		return s.mapError(err)
	}
	if affected == 0 {
		return internalError(fmt.Sprintf("core: expiring access token %q affected no rows", token))
	}
	return nil
}

// GetAuthorizationCode looks up an authorization code from the configured
// code store. Absent codes are a false, never an error.
func (s *Service) GetAuthorizationCode(ctx context.Context, code string) (AuthorizationCode, bool, error) {
	record, found, err := s.codes.Get(ctx, code)
	if err != nil {
		return AuthorizationCode{}, false, s.mapError(err)
	}
	if !found {
		return AuthorizationCode{}, false, nil
	}
	return record, true, nil
}

// SetAuthorizationCode stores an authorization code, unconditionally
// overwriting any existing entry for the same code value.
func (s *Service) SetAuthorizationCode(ctx context.Context, code string, clientID string, userID int64, redirectURI string, expiresEpoch int64, scope string) error {
	if code == "" {
		return badInputError("core: authorization code is required")
	}
	record := AuthorizationCode{
		Code:        code,
		ClientID:    clientID,
		UserID:      userID,
		RedirectURI: redirectURI,
		ExpiresAt:   time.Unix(expiresEpoch, 0).UTC(),
		Scope:       scope,
	}
	if err := s.codes.Save(ctx, record); err != nil {
		return s.mapError(err)
	}
	return nil
}

// ExpireAuthorizationCode is deliberately unimplemented; codes are
// overwritten or abandoned, never expired in place.
func (s *Service) ExpireAuthorizationCode(_ context.Context, code string) error {
	return notSupportedError(fmt.Sprintf("core: expiring authorization code %q is not supported", code))
}

// GetUserDetails resolves a user by email. The returned record mirrors the
// primary identifier into UserID for storage-contract consumers.
func (s *Service) GetUserDetails(ctx context.Context, username string) (User, bool, error) {
	user, found, err := s.users.GetByEmail(ctx, username)
	if err != nil {
		return User{}, false, s.mapError(err)
	}
	if !found {
		return User{}, false, nil
	}
	user.UserID = user.ID
	return user, true, nil
}

// CheckUserCredentials always succeeds. Password verification is owned by
// the authentication component that runs earlier in the request pipeline;
// callers must not rely on this operation for authentication.
func (s *Service) CheckUserCredentials(_ context.Context, _ string, _ string) (bool, error) {
	return true, nil
}

// CheckClientCredentials is deliberately unimplemented.
func (s *Service) CheckClientCredentials(_ context.Context, clientID string, _ string) error {
	return notSupportedError(fmt.Sprintf("core: checking client credentials for %q is not supported", clientID))
}

// GetPrivateKey is deliberately unimplemented; this store only serves
// verification keys.
func (s *Service) GetPrivateKey(_ context.Context, clientID string) error {
	return notSupportedError(fmt.Sprintf("core: private key lookup for %q is not supported", clientID))
}

// GetClientScope is deliberately unimplemented.
func (s *Service) GetClientScope(_ context.Context, clientID string) error {
	return notSupportedError(fmt.Sprintf("core: client scope lookup for %q is not supported", clientID))
}

// DeleteAccessTokensByUserID removes every token row belonging to the user
// after invalidating their cache entries. The user id arrives as a string
// from the administrative boundary and must be a positive number.
func (s *Service) DeleteAccessTokensByUserID(ctx context.Context, userID string) error {
	parsed, err := strconv.ParseInt(userID, 10, 64)
	if err != nil || parsed <= 0 {
		return badInputError(fmt.Sprintf("core: user id %q must be a positive number", userID))
	}
	if err := s.invalidateUserTokenCache(ctx, parsed); err != nil {
		return err
	}
	if _, err := s.tokens.DeleteByUser(ctx, parsed); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *Service) invalidateUserTokenCache(ctx context.Context, userID int64) error {
	tokens, err := s.tokens.ListByUser(ctx, userID)
	if err != nil {
		return s.mapError(err)
	}
	for _, token := range tokens {
		key := AccessTokenCacheKey(token.Token)
		if deleteErr := s.cache.Delete(ctx, key); deleteErr != nil {
			s.logger.Warn("access cache invalidation failed", "key", key, "error", deleteErr)
		}
	}
	return nil
}

// ExpireUserTokens sets every currently-unexpired token of the user to
// expired, invalidating the cache entry per token, and persists the
// mutations as a single batch.
func (s *Service) ExpireUserTokens(ctx context.Context, userID int64) error {
	now := s.now()
	tokens, err := s.tokens.ListActiveByUser(ctx, userID, now)
	if err != nil {
		return s.mapError(err)
	}
	for _, token := range tokens {
		key := AccessTokenCacheKey(token.Token)
		if deleteErr := s.cache.Delete(ctx, key); deleteErr != nil {
			s.logger.Warn("access cache invalidation failed", "key", key, "error", deleteErr)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	if _, err := s.tokens.ExpireByUser(ctx, userID, now); err != nil {
		return s.mapError(err)
	}
	return nil
}

// GetValidAccessToken returns the token string of an arbitrary record whose
// expiration is at least the configured horizon in the future. Diagnostic
// use only.
func (s *Service) GetValidAccessToken(ctx context.Context) (string, error) {
	horizon := time.Duration(s.config.ValidTokenHorizon) * time.Second
	record, found, err := s.tokens.FindValid(ctx, s.now().Add(horizon))
	if err != nil {
		return "", s.mapError(err)
	}
	if !found {
		return "", notFoundError("core: no access token with enough remaining lifetime")
	}
	return record.Token, nil
}

// FlushAccessCache clears the whole cache group owned by this store.
// Administrative operation; the next read of each key repopulates it.
func (s *Service) FlushAccessCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("access cache flush failed", "error", err)
		return s.mapError(err)
	}
	return nil
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s.errorMapper != nil {
		if mapped := s.errorMapper(err); mapped != nil {
			return mapped
		}
	}
	return err
}
