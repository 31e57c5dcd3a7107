package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizSessionKey returns the store key for a quiz session
func (r *CacheKeyStruct) QuizSessionKey(sessionID string) string {
	return "quiz:session:" + sessionID
}

var CacheKey = NewCacheKeyStruct()

type QueueKeyStruct struct {
	PersistAttemptsQueue string
}

var QueueKey = &QueueKeyStruct{
	PersistAttemptsQueue: "persist_attempts_queue",
}
