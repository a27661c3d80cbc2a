package mockdata

// Company is a recruiting company record.
type Company struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Industry   string `json:"industry"`
	Location   string `json:"location"`
	Size       string `json:"size"`
	Website    string `json:"website"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	JobsPosted int    `json:"jobsPosted"`
}

// Job is a posted job opening.
type Job struct {
	ID        int    `json:"id"`
	CompanyID int    `json:"company_id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Location  string `json:"location"`
	Package   string `json:"package"`
	Openings  int    `json:"openings"`
	Status    string `json:"status"`
	Deadline  string `json:"deadline"`
}

// Internship is a posted internship opening.
type Internship struct {
	ID        int    `json:"id"`
	CompanyID int    `json:"company_id"`
	Title     string `json:"title"`
	Duration  string `json:"duration"`
	Stipend   string `json:"stipend"`
	Openings  int    `json:"openings"`
	Status    string `json:"status"`
}

// Application is a student's application to a job or internship.
type Application struct {
	ID        int    `json:"id"`
	StudentID int    `json:"student_id"`
	JobID     int    `json:"job_id"`
	Status    string `json:"status"`
	AppliedAt string `json:"applied_at"`
}

// Offer is an extended placement offer.
type Offer struct {
	ID            int    `json:"id"`
	ApplicationID int    `json:"application_id"`
	Package       string `json:"package"`
	Status        string `json:"status"`
	OfferedAt     string `json:"offered_at"`
}

// Stats is the aggregate dashboard snapshot.
type Stats struct {
	TotalCompanies     int     `json:"total_companies"`
	ActiveJobs         int     `json:"active_jobs"`
	ActiveInternships  int     `json:"active_internships"`
	TotalApplications  int     `json:"total_applications"`
	OffersExtended     int     `json:"offers_extended"`
	OffersAccepted     int     `json:"offers_accepted"`
	PlacementRate      float64 `json:"placement_rate"`
	AveragePackageLakh float64 `json:"average_package_lakh"`
}

// Companies returns the sample company list.
func Companies() []Company {
	return []Company{
		{ID: 1, Name: "TechCorp Solutions", Industry: "Technology", Location: "Bangalore, India", Size: "500-1000", Website: "https://techcorp.example.com", Email: "hr@techcorp.example.com", Status: "active", JobsPosted: 15},
		{ID: 2, Name: "InnovateTech Systems", Industry: "Software Development", Location: "Hyderabad, India", Size: "100-500", Website: "https://innovatetech.example.com", Email: "careers@innovatetech.example.com", Status: "active", JobsPosted: 8},
		{ID: 3, Name: "DataBridge Analytics", Industry: "Data & AI", Location: "Chennai, India", Size: "50-100", Website: "https://databridge.example.com", Email: "jobs@databridge.example.com", Status: "active", JobsPosted: 5},
		{ID: 4, Name: "CloudNine Infra", Industry: "Cloud Services", Location: "Pune, India", Size: "100-500", Website: "https://cloudnine.example.com", Email: "talent@cloudnine.example.com", Status: "inactive", JobsPosted: 2},
	}
}

// Jobs returns the sample job list.
func Jobs() []Job {
	return []Job{
		{ID: 1, CompanyID: 1, Title: "Software Engineer", Type: "full-time", Location: "Bangalore", Package: "12 LPA", Openings: 10, Status: "open", Deadline: "2026-09-30"},
		{ID: 2, CompanyID: 1, Title: "QA Engineer", Type: "full-time", Location: "Bangalore", Package: "8 LPA", Openings: 4, Status: "open", Deadline: "2026-09-15"},
		{ID: 3, CompanyID: 2, Title: "Backend Developer", Type: "full-time", Location: "Hyderabad", Package: "10 LPA", Openings: 6, Status: "open", Deadline: "2026-10-10"},
		{ID: 4, CompanyID: 3, Title: "Data Analyst", Type: "full-time", Location: "Chennai", Package: "9 LPA", Openings: 3, Status: "closed", Deadline: "2026-07-01"},
	}
}

// Internships returns the sample internship list.
func Internships() []Internship {
	return []Internship{
		{ID: 1, CompanyID: 1, Title: "SDE Intern", Duration: "6 months", Stipend: "40k/month", Openings: 8, Status: "open"},
		{ID: 2, CompanyID: 2, Title: "DevOps Intern", Duration: "3 months", Stipend: "25k/month", Openings: 2, Status: "open"},
		{ID: 3, CompanyID: 3, Title: "ML Intern", Duration: "6 months", Stipend: "35k/month", Openings: 4, Status: "closed"},
	}
}

// Applications returns the sample application list.
func Applications() []Application {
	return []Application{
		{ID: 1, StudentID: 3, JobID: 1, Status: "shortlisted", AppliedAt: "2026-07-12T09:30:00Z"},
		{ID: 2, StudentID: 3, JobID: 3, Status: "applied", AppliedAt: "2026-07-20T14:05:00Z"},
		{ID: 3, StudentID: 4, JobID: 1, Status: "offered", AppliedAt: "2026-07-10T11:15:00Z"},
		{ID: 4, StudentID: 4, JobID: 2, Status: "rejected", AppliedAt: "2026-07-18T16:40:00Z"},
	}
}

// Offers returns the sample offer list.
func Offers() []Offer {
	return []Offer{
		{ID: 1, ApplicationID: 3, Package: "12 LPA", Status: "accepted", OfferedAt: "2026-08-01T10:00:00Z"},
		{ID: 2, ApplicationID: 1, Package: "12 LPA", Status: "pending", OfferedAt: "2026-08-10T10:00:00Z"},
	}
}

// Aggregate computes the dashboard stats from the sample data.
func Aggregate() Stats {
	var activeJobs int
	for _, j := range Jobs() {
		if j.Status == "open" {
			activeJobs++
		}
	}
	var activeInternships int
	for _, i := range Internships() {
		if i.Status == "open" {
			activeInternships++
		}
	}
	var accepted int
	for _, o := range Offers() {
		if o.Status == "accepted" {
			accepted++
		}
	}
	return Stats{
		TotalCompanies:     len(Companies()),
		ActiveJobs:         activeJobs,
		ActiveInternships:  activeInternships,
		TotalApplications:  len(Applications()),
		OffersExtended:     len(Offers()),
		OffersAccepted:     accepted,
		PlacementRate:      float64(accepted) / float64(len(Applications())),
		AveragePackageLakh: 10.25,
	}
}
