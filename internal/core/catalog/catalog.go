// Package catalog declares the list-resource schema of every entity the
// back office manages: display-id prefix, searchable fields, filter
// dimensions, references and defaults.
package catalog

import (
	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
)

// Resource names, as used in URLs and collection names.
const (
	ResJobs       = "jobs"
	ResLabor      = "labor"
	ResLeadLabour = "lead-labor"
	ResSuppliers  = "suppliers"
	ResStaff      = "staff"
	ResUsers      = "users"
	ResOrders     = "orders"
	ResApprovals  = "approvals"
	ResTimesheets = "timesheets"
	ResMaterials  = "materials"
	ResTimeLogs   = "time-logs"
	ResChanges    = "changes"
)

// Order lists resources so that every reference target precedes its
// referrers. Fixture imports follow it.
var Order = []string{
	ResSuppliers, ResStaff, ResUsers, ResLabor, ResLeadLabour, ResMaterials,
	ResJobs, ResOrders, ResTimesheets, ResTimeLogs, ResApprovals,
}

func one(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}

func displayID[T domain.Record](r T) string { return r.Base().DisplayID }

var Jobs = listing.Schema[*domain.Job]{
	Resource: ResJobs,
	Prefix:   "JOB",
	New:      func() *domain.Job { return &domain.Job{} },
	Label:    func(j *domain.Job) string { return j.Title },
	Normalize: func(j *domain.Job) {
		if j.Status == "" {
			j.Status = domain.JobPending
		}
		if j.Priority == "" {
			j.Priority = domain.PriorityMedium
		}
		if j.AssignedLabor == nil {
			j.AssignedLabor = []string{}
		}
	},
	Search: []listing.Field[*domain.Job]{
		listing.Text("display_id", displayID[*domain.Job]),
		listing.Text("title", func(j *domain.Job) string { return j.Title }),
		listing.Text("client", func(j *domain.Job) string { return j.Client }),
		listing.Text("location", func(j *domain.Job) string { return j.Location }),
	},
	Filters: map[string]listing.Field[*domain.Job]{
		"status":      listing.Text("status", func(j *domain.Job) string { return string(j.Status) }),
		"priority":    listing.Text("priority", func(j *domain.Job) string { return string(j.Priority) }),
		"client":      listing.Text("client", func(j *domain.Job) string { return j.Client }),
		"lead_labour": listing.Text("lead_labour_id", func(j *domain.Job) string { return j.LeadLabourID }),
		"labor":       listing.List("assigned_labor", func(j *domain.Job) []string { return j.AssignedLabor }),
	},
	References: []listing.Reference[*domain.Job]{
		{Filter: "lead_labour", Target: ResLeadLabour, IDs: func(j *domain.Job) []string { return one(j.LeadLabourID) }},
		{Filter: "labor", Target: ResLabor, IDs: func(j *domain.Job) []string { return j.AssignedLabor }},
	},
}

var Labor = listing.Schema[*domain.Labor]{
	Resource: ResLabor,
	Prefix:   "LB",
	New:      func() *domain.Labor { return &domain.Labor{} },
	Label:    func(l *domain.Labor) string { return l.Name },
	Normalize: func(l *domain.Labor) {
		if l.Availability == "" {
			l.Availability = domain.Available
		}
		if l.Skills == nil {
			l.Skills = []string{}
		}
		if l.Certifications == nil {
			l.Certifications = []string{}
		}
	},
	Search: []listing.Field[*domain.Labor]{
		listing.Text("name", func(l *domain.Labor) string { return l.Name }),
		listing.Text("email", func(l *domain.Labor) string { return l.Email }),
		listing.Text("trade", func(l *domain.Labor) string { return l.Trade }),
		listing.List("skills", func(l *domain.Labor) []string { return l.Skills }),
	},
	Filters: map[string]listing.Field[*domain.Labor]{
		"availability": listing.Text("availability", func(l *domain.Labor) string { return string(l.Availability) }),
		"trade":        listing.Text("trade", func(l *domain.Labor) string { return l.Trade }),
		"skill":        listing.List("skills", func(l *domain.Labor) []string { return l.Skills }),
	},
}

var LeadLabour = listing.Schema[*domain.LeadLabour]{
	Resource: ResLeadLabour,
	Prefix:   "LL",
	New:      func() *domain.LeadLabour { return &domain.LeadLabour{} },
	Label:    func(l *domain.LeadLabour) string { return l.Name },
	Normalize: func(l *domain.LeadLabour) {
		if l.Availability == "" {
			l.Availability = domain.Available
		}
		if l.Crew == nil {
			l.Crew = []string{}
		}
		if l.Certifications == nil {
			l.Certifications = []string{}
		}
	},
	Search: []listing.Field[*domain.LeadLabour]{
		listing.Text("name", func(l *domain.LeadLabour) string { return l.Name }),
		listing.Text("email", func(l *domain.LeadLabour) string { return l.Email }),
		listing.Text("specialization", func(l *domain.LeadLabour) string { return l.Specialization }),
	},
	Filters: map[string]listing.Field[*domain.LeadLabour]{
		"availability":   listing.Text("availability", func(l *domain.LeadLabour) string { return string(l.Availability) }),
		"specialization": listing.Text("specialization", func(l *domain.LeadLabour) string { return l.Specialization }),
		"crew_member":    listing.List("crew", func(l *domain.LeadLabour) []string { return l.Crew }),
	},
	References: []listing.Reference[*domain.LeadLabour]{
		{Filter: "crew_member", Target: ResLabor, IDs: func(l *domain.LeadLabour) []string { return l.Crew }},
	},
}

var Suppliers = listing.Schema[*domain.Supplier]{
	Resource: ResSuppliers,
	Prefix:   "SP",
	New:      func() *domain.Supplier { return &domain.Supplier{} },
	Label:    func(s *domain.Supplier) string { return s.Name },
	Normalize: func(s *domain.Supplier) {
		if s.Status == "" {
			s.Status = domain.StatusActive
		}
	},
	Search: []listing.Field[*domain.Supplier]{
		listing.Text("name", func(s *domain.Supplier) string { return s.Name }),
		listing.Text("contact_person", func(s *domain.Supplier) string { return s.ContactPerson }),
		listing.Text("email", func(s *domain.Supplier) string { return s.Email }),
		listing.Text("category", func(s *domain.Supplier) string { return s.Category }),
	},
	Filters: map[string]listing.Field[*domain.Supplier]{
		"status":   listing.Text("status", func(s *domain.Supplier) string { return string(s.Status) }),
		"category": listing.Text("category", func(s *domain.Supplier) string { return s.Category }),
	},
}

var Staff = listing.Schema[*domain.StaffMember]{
	Resource: ResStaff,
	Prefix:   "STF",
	New:      func() *domain.StaffMember { return &domain.StaffMember{} },
	Label:    func(s *domain.StaffMember) string { return s.Name },
	Normalize: func(s *domain.StaffMember) {
		if s.Status == "" {
			s.Status = domain.StaffActive
		}
	},
	Search: []listing.Field[*domain.StaffMember]{
		listing.Text("name", func(s *domain.StaffMember) string { return s.Name }),
		listing.Text("email", func(s *domain.StaffMember) string { return s.Email }),
		listing.Text("position", func(s *domain.StaffMember) string { return s.Position }),
	},
	Filters: map[string]listing.Field[*domain.StaffMember]{
		"department": listing.Text("department", func(s *domain.StaffMember) string { return s.Department }),
		"status":     listing.Text("status", func(s *domain.StaffMember) string { return string(s.Status) }),
	},
}

var Users = listing.Schema[*domain.SystemUser]{
	Resource: ResUsers,
	Prefix:   "USR",
	New:      func() *domain.SystemUser { return &domain.SystemUser{} },
	Label:    func(u *domain.SystemUser) string { return u.Name },
	Normalize: func(u *domain.SystemUser) {
		if u.Status == "" {
			u.Status = domain.UserActive
		}
		if u.Permissions == nil {
			u.Permissions = map[string]bool{}
		}
	},
	Search: []listing.Field[*domain.SystemUser]{
		listing.Text("name", func(u *domain.SystemUser) string { return u.Name }),
		listing.Text("email", func(u *domain.SystemUser) string { return u.Email }),
	},
	Filters: map[string]listing.Field[*domain.SystemUser]{
		"role":       listing.Text("role", func(u *domain.SystemUser) string { return u.Role }),
		"status":     listing.Text("status", func(u *domain.SystemUser) string { return string(u.Status) }),
		"permission": listing.Flags("permissions", func(u *domain.SystemUser) map[string]bool { return u.Permissions }),
	},
}

var Orders = listing.Schema[*domain.Order]{
	Resource: ResOrders,
	Prefix:   "ORD",
	New:      func() *domain.Order { return &domain.Order{} },
	Label: func(o *domain.Order) string {
		if o.Reference != "" {
			return o.Reference
		}
		return o.DisplayID
	},
	Normalize: func(o *domain.Order) {
		if o.Status == "" {
			o.Status = domain.OrderDraft
		}
		if o.PaymentStatus == "" {
			o.PaymentStatus = domain.PaymentUnpaid
		}
		o.Total = o.ComputeTotal()
	},
	Search: []listing.Field[*domain.Order]{
		listing.Text("display_id", displayID[*domain.Order]),
		listing.Text("reference", func(o *domain.Order) string { return o.Reference }),
		listing.Text("notes", func(o *domain.Order) string { return o.Notes }),
	},
	Filters: map[string]listing.Field[*domain.Order]{
		"status":         listing.Text("status", func(o *domain.Order) string { return string(o.Status) }),
		"payment_status": listing.Text("payment_status", func(o *domain.Order) string { return string(o.PaymentStatus) }),
		"supplier":       listing.Text("supplier_id", func(o *domain.Order) string { return o.SupplierID }),
		"job":            listing.Text("job_id", func(o *domain.Order) string { return o.JobID }),
	},
	References: []listing.Reference[*domain.Order]{
		{Filter: "supplier", Target: ResSuppliers, IDs: func(o *domain.Order) []string { return one(o.SupplierID) }},
		{Filter: "job", Target: ResJobs, IDs: func(o *domain.Order) []string { return one(o.JobID) }},
	},
}

var Approvals = listing.Schema[*domain.Approval]{
	Resource: ResApprovals,
	Prefix:   "APR",
	New:      func() *domain.Approval { return &domain.Approval{} },
	Label:    func(a *domain.Approval) string { return a.Title },
	Normalize: func(a *domain.Approval) {
		if a.Status == "" {
			a.Status = domain.ApprovalPending
		}
	},
	Search: []listing.Field[*domain.Approval]{
		listing.Text("display_id", displayID[*domain.Approval]),
		listing.Text("title", func(a *domain.Approval) string { return a.Title }),
	},
	Filters: map[string]listing.Field[*domain.Approval]{
		"type":      listing.Text("type", func(a *domain.Approval) string { return a.Type }),
		"status":    listing.Text("status", func(a *domain.Approval) string { return string(a.Status) }),
		"requester": listing.Text("requested_by", func(a *domain.Approval) string { return a.RequestedBy }),
	},
	References: []listing.Reference[*domain.Approval]{
		{Filter: "requester", Target: ResStaff, IDs: func(a *domain.Approval) []string { return one(a.RequestedBy) }},
	},
}

var Timesheets = listing.Schema[*domain.TimesheetEntry]{
	Resource: ResTimesheets,
	Prefix:   "TS",
	New:      func() *domain.TimesheetEntry { return &domain.TimesheetEntry{} },
	Label:    func(t *domain.TimesheetEntry) string { return t.DisplayID + " " + t.WorkDate },
	Normalize: func(t *domain.TimesheetEntry) {
		if t.Status == "" {
			t.Status = domain.TimesheetDraft
		}
	},
	Search: []listing.Field[*domain.TimesheetEntry]{
		listing.Text("display_id", displayID[*domain.TimesheetEntry]),
		listing.Text("notes", func(t *domain.TimesheetEntry) string { return t.Notes }),
	},
	Filters: map[string]listing.Field[*domain.TimesheetEntry]{
		"status": listing.Text("status", func(t *domain.TimesheetEntry) string { return string(t.Status) }),
		"labor":  listing.Text("labor_id", func(t *domain.TimesheetEntry) string { return t.LaborID }),
		"job":    listing.Text("job_id", func(t *domain.TimesheetEntry) string { return t.JobID }),
	},
	References: []listing.Reference[*domain.TimesheetEntry]{
		{Filter: "labor", Target: ResLabor, IDs: func(t *domain.TimesheetEntry) []string { return one(t.LaborID) }},
		{Filter: "job", Target: ResJobs, IDs: func(t *domain.TimesheetEntry) []string { return one(t.JobID) }},
	},
}

var Materials = listing.Schema[*domain.Material]{
	Resource: ResMaterials,
	Prefix:   "MAT",
	New:      func() *domain.Material { return &domain.Material{} },
	Label:    func(m *domain.Material) string { return m.Name },
	Normalize: func(m *domain.Material) {
		if m.Status == "" {
			m.Status = domain.InStock
		}
	},
	Search: []listing.Field[*domain.Material]{
		listing.Text("name", func(m *domain.Material) string { return m.Name }),
		listing.Text("category", func(m *domain.Material) string { return m.Category }),
	},
	Filters: map[string]listing.Field[*domain.Material]{
		"status":   listing.Text("status", func(m *domain.Material) string { return string(m.Status) }),
		"category": listing.Text("category", func(m *domain.Material) string { return m.Category }),
		"supplier": listing.Text("supplier_id", func(m *domain.Material) string { return m.SupplierID }),
	},
	References: []listing.Reference[*domain.Material]{
		{Filter: "supplier", Target: ResSuppliers, IDs: func(m *domain.Material) []string { return one(m.SupplierID) }},
	},
}

var TimeLogs = listing.Schema[*domain.TimeLog]{
	Resource: ResTimeLogs,
	Prefix:   "TL",
	New:      func() *domain.TimeLog { return &domain.TimeLog{} },
	Label:    func(l *domain.TimeLog) string { return l.DisplayID + " " + l.Date },
	Normalize: func(l *domain.TimeLog) {
		if l.Status == "" {
			l.Status = domain.TimeLogRunning
		}
	},
	Search: []listing.Field[*domain.TimeLog]{
		listing.Text("display_id", displayID[*domain.TimeLog]),
		listing.Text("notes", func(l *domain.TimeLog) string { return l.Notes }),
	},
	Filters: map[string]listing.Field[*domain.TimeLog]{
		"status": listing.Text("status", func(l *domain.TimeLog) string { return string(l.Status) }),
		"job":    listing.Text("job_id", func(l *domain.TimeLog) string { return l.JobID }),
		"labor":  listing.Text("labor_id", func(l *domain.TimeLog) string { return l.LaborID }),
	},
	References: []listing.Reference[*domain.TimeLog]{
		{Filter: "job", Target: ResJobs, IDs: func(l *domain.TimeLog) []string { return one(l.JobID) }},
		{Filter: "labor", Target: ResLabor, IDs: func(l *domain.TimeLog) []string { return one(l.LaborID) }},
	},
}

var Changes = listing.Schema[*domain.ChangeEvent]{
	Resource: ResChanges,
	Prefix:   "EVT",
	New:      func() *domain.ChangeEvent { return &domain.ChangeEvent{} },
	Label:    func(e *domain.ChangeEvent) string { return string(e.Op) + " " + e.RecordDisplayID },
	Search: []listing.Field[*domain.ChangeEvent]{
		listing.Text("record_display_id", func(e *domain.ChangeEvent) string { return e.RecordDisplayID }),
		listing.Text("actor", func(e *domain.ChangeEvent) string { return e.Actor }),
	},
	Filters: map[string]listing.Field[*domain.ChangeEvent]{
		"resource":  listing.Text("resource", func(e *domain.ChangeEvent) string { return e.Resource }),
		"op":        listing.Text("op", func(e *domain.ChangeEvent) string { return string(e.Op) }),
		"record_id": listing.Text("record_id", func(e *domain.ChangeEvent) string { return e.RecordID }),
		"actor":     listing.Text("actor", func(e *domain.ChangeEvent) string { return e.Actor }),
	},
}
