package usecase

import "time"

const (
	cacheKeyGlobalTree  = "tree:global"
	cacheKeyRebuildLock = "tree:rebuild:lock"

	cacheKeyUsersBySkillPrefix = "users:query:by-skill:"
	cacheKeyUsersWithSkills    = "users:query:with-skills"
	cachePatternUsersQuery     = "users:query:*"

	treeCacheTTL       = 60 * time.Second
	usersQueryCacheTTL = 60 * time.Second
	rebuildLockTTL     = 10 * time.Minute
)

func usersBySkillCacheKey(skillID string) string {
	return cacheKeyUsersBySkillPrefix + skillID
}
