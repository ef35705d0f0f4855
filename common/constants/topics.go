package constants

const (
	// ScrapeSubjectPrefix is the root of every subject published by the scrape pipeline.
	ScrapeSubjectPrefix = "casanova.scrape"
	// ScrapeCompletedSubjectPrefix is followed by the category, e.g. casanova.scrape.completed.visa.
	ScrapeCompletedSubjectPrefix = ScrapeSubjectPrefix + ".completed"
	// ScrapeStreamSubjects is bound to the JetStream stream.
	ScrapeStreamSubjects = ScrapeSubjectPrefix + ".>"
)

// ScrapeCompletedSubject returns the subject a country scrape of category c is announced on.
func ScrapeCompletedSubject(c Category) string {
	return ScrapeCompletedSubjectPrefix + "." + string(c)
}
