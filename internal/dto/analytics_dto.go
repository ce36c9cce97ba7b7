package dto

// AnalyticsOverviewResponse aggregates record counts for the admin dashboard.
type AnalyticsOverviewResponse struct {
	TotalStudents     int64 `json:"total_students"`
	TotalTeachers     int64 `json:"total_teachers"`
	TotalCourses      int64 `json:"total_courses"`
	TotalAssignments  int64 `json:"total_assignments"`
	TotalSubmissions  int64 `json:"total_submissions"`
	GradedSubmissions int64 `json:"graded_submissions"`
}
