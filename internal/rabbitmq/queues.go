package rabbitmq

const (
	NOTICE_POSTED_QUEUE   = "notices.posted"
	NOTICE_ARCHIVED_QUEUE = "notices.archived"
)
