package types

// EventStatus represents the health classification of an event.
type EventStatus string

const (
	EventStatusGreen EventStatus = "GREEN" // on track
	EventStatusAmber EventStatus = "AMBER" // at risk
	EventStatusRed   EventStatus = "RED"   // critical / under-registered inside the alert window
)

// Region identifies the operating region of an event.
type Region string

const (
	RegionNA    Region = "North America"
	RegionEMEA  Region = "EMEA"
	RegionAPAC  Region = "Asia Pacific"
	RegionLATAM Region = "Latin America"
)

// AllRegions enumerates the valid Region values for validators.
var AllRegions = []Region{RegionNA, RegionEMEA, RegionAPAC, RegionLATAM}

// AlertSeverity grades the urgency of an alert.
//
// The rule engine currently emits SeverityCritical for every alert it
// produces; the trigger predicate is binary. High and Medium are declared
// for forward compatibility and are never produced today.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "CRITICAL"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityMedium   AlertSeverity = "MEDIUM"
)

// AlertStatus is the lifecycle state of an alert.
//
// The only transition exercised by the platform is NEW -> ACKNOWLEDGED.
// Escalated and Resolved are declared extension points with no automatic
// triggers; note that an alert whose underlying condition clears is dropped
// from the tracked set entirely, which is deletion rather than a transition
// to Resolved.
type AlertStatus string

const (
	AlertStatusNew          AlertStatus = "NEW"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusEscalated    AlertStatus = "ESCALATED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

// AllAlertStatuses enumerates the declared AlertStatus values.
var AllAlertStatuses = []AlertStatus{
	AlertStatusNew,
	AlertStatusAcknowledged,
	AlertStatusEscalated,
	AlertStatusResolved,
}

// Valid reports whether s is a declared AlertStatus value.
func (s AlertStatus) Valid() bool {
	for _, v := range AllAlertStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ReportKind identifies the type of generated report requested from the
// AI collaborator.
type ReportKind string

const (
	ReportPlaybook ReportKind = "remediation_playbook"
	ReportComms    ReportKind = "alert_comms"
	ReportAnalysis ReportKind = "event_analysis"
)
