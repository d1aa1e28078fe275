package redisrepo

const (
	ACTIVE_NOTICES   = "notices:active"
	NEW_NOTICES      = "notices:new"
	ARCHIVED_NOTICES = "notices:archived"
)

func ListingKeys() []string {
	return []string{ACTIVE_NOTICES, NEW_NOTICES, ARCHIVED_NOTICES}
}
