package repository

// Collection names, shared with the cache layer as cache keys.
const (
	CollectionUsers       = "users"
	CollectionSurveys     = "surveys"
	CollectionFeedbacks   = "feedbacks"
	CollectionDepartments = "departments"
	CollectionQuestions   = "questions"
	CollectionSessions    = "sessions"
)
