package domain

import "time"

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardStats struct {
	TotalVisits             int64      `json:"total_visits"`
	ActiveVisits            int64      `json:"active_visits"`
	TodayVisits             int64      `json:"today_visits"`
	PendingPreRegistrations int64      `json:"pending_preregistrations"`
	VisitsByDay             []DayCount `json:"visits_by_day"`
}

// VisitReportRow is one flattened visit for reports and exports.
type VisitReportRow struct {
	VisitID        int64       `json:"visit_id"`
	VisitorName    string      `json:"visitor_name"`
	VisitorEmail   string      `json:"visitor_email"`
	VisitorPhone   string      `json:"visitor_phone"`
	VisitorCompany string      `json:"visitor_company"`
	Purpose        string      `json:"purpose"`
	IDCardNumber   string      `json:"id_card_number"`
	HostName       string      `json:"host_name"`
	HostEmail      string      `json:"host_email"`
	CheckInTime    time.Time   `json:"check_in_time"`
	CheckOutTime   *time.Time  `json:"check_out_time"`
	Status         VisitStatus `json:"status"`
	PreRegistered  bool        `json:"pre_registered"`
}

// Duration returns the time spent on site, or zero for open visits.
func (r *VisitReportRow) Duration() time.Duration {
	if r.CheckOutTime == nil {
		return 0
	}
	return r.CheckOutTime.Sub(r.CheckInTime)
}

type ReportRange struct {
	From *time.Time
	To   *time.Time // exclusive
}
