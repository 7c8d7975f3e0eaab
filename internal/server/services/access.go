package services

import (
	"context"
	"database/sql"
	"path"
	"strings"

	"github.com/dmitrijs2005/vidpress/internal/logging"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/repomanager"
)

// AccessService evaluates the role-based policy before privileged data is
// exposed. Evaluation is deny-by-default and fail-closed: an empty identity,
// a missing policy entry or a policy-store error all deny.
type AccessService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewAccessService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *AccessService {
	return &AccessService{
		db:     db,
		repos:  repos,
		logger: logger.With("module", "access_service"),
	}
}

// CheckAccess reports whether the caller identity may access requestedPath.
// It performs no I/O beyond the policy lookup; short-circuiting the request
// on denial is the caller's job.
func (s *AccessService) CheckAccess(ctx context.Context, identity, requestedPath string) bool {

	if identity == "" {
		return false
	}

	repo := s.repos.Policies(s.db)

	roles, err := repo.RolesForIdentity(ctx, identity)
	if err != nil {
		s.logger.Error(ctx, "policy lookup failed, denying", "identity", identity, "error", err)
		return false
	}

	for _, role := range roles {
		patterns, err := repo.PathPatternsForRole(ctx, role)
		if err != nil {
			s.logger.Error(ctx, "policy lookup failed, denying", "role", role, "error", err)
			return false
		}

		for _, pattern := range patterns {
			if matchPath(pattern, requestedPath) {
				return true
			}
		}
	}

	return false
}

// matchPath matches a policy pattern against a request path. Exact matches
// and shell-style patterns are supported; a trailing "/*" also covers nested
// segments ("/secret/*" matches "/secret/staging-env").
func matchPath(pattern, requestedPath string) bool {
	if pattern == requestedPath {
		return true
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "*")
		if strings.HasPrefix(requestedPath, prefix) {
			return true
		}
	}

	ok, err := path.Match(pattern, requestedPath)
	return err == nil && ok
}
