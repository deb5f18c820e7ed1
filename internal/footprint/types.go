// Package footprint estimates the annual digital carbon footprint of a person
// from device ownership, daily digital activities, habits and AI-tool usage.
//
// Every figure is expressed in kg CO2e per year. The calculator functions are
// pure and safe for concurrent use; they assume their input already passed
// Snapshot.Validate and panic when an enum key outside its table reaches them.
package footprint

import (
	"fmt"
	"strings"
)

// Role selects the activity factor set applied to a person.
type Role string

// Roles of the academic community covered by the questionnaire.
const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleStaff     Role = "staff"
)

// DeviceType is one of the eight device kinds with an embodied emission factor.
type DeviceType string

// Device kinds.
const (
	DeviceDesktop    DeviceType = "desktop_computer"
	DeviceLaptop     DeviceType = "laptop_computer"
	DeviceSmartphone DeviceType = "smartphone"
	DeviceTablet     DeviceType = "tablet"
	DeviceMonitor    DeviceType = "external_monitor"
	DeviceHeadphones DeviceType = "headphones"
	DevicePrinter    DeviceType = "printer"
	DeviceRouter     DeviceType = "router_modem"
)

// Condition records whether a device was new or used when acquired.
type Condition string

// Device conditions.
const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// Sharing records whether a device is used by one person or several.
type Sharing string

// Sharing modes.
const (
	SharingPersonal Sharing = "personal"
	SharingShared   Sharing = "shared"
)

// EndOfLife is what the owner does with a device once it is no longer needed.
type EndOfLife string

// End-of-life dispositions.
const (
	EOLCertifiedCenter    EndOfLife = "certified_collection"
	EOLGeneralWaste       EndOfLife = "general_waste"
	EOLManufacturerReturn EndOfLife = "manufacturer_return"
	EOLResaleDonation     EndOfLife = "resale_donation"
	EOLHomeStorage        EndOfLife = "home_storage"
)

// Activity names a daily digital activity. The set available depends on Role.
type Activity string

// Activities across all roles.
const (
	ActivityOfficeSuite        Activity = "office_suite"
	ActivityTechnicalSoftware  Activity = "technical_software"
	ActivityWebBrowsing        Activity = "web_browsing"
	ActivityLectureRecordings  Activity = "lecture_recordings"
	ActivityOnlineClasses      Activity = "online_classes"
	ActivityVideoCall          Activity = "video_call"
	ActivityClassStreaming     Activity = "class_streaming"
	ActivityReadingMaterials   Activity = "reading_materials"
	ActivityManagementSoftware Activity = "management_software"
)

// AITask is one of the twelve AI-assisted tasks tracked in queries per day.
type AITask string

// AI tasks.
const (
	TaskSummarize       AITask = "summarize_texts"
	TaskTranslate       AITask = "translate_texts"
	TaskExplainConcept  AITask = "explain_concept"
	TaskGenerateQuizzes AITask = "generate_quizzes"
	TaskWriteEmails     AITask = "write_emails"
	TaskCorrectGrammar  AITask = "correct_grammar"
	TaskAnalyzePDFs     AITask = "analyze_pdfs"
	TaskWriteCode       AITask = "write_code"
	TaskGenerateImages  AITask = "generate_images"
	TaskBrainstorm      AITask = "brainstorm"
	TaskExplainCode     AITask = "explain_code"
	TaskPrepareLessons  AITask = "prepare_lessons"
)

// EmailBucket is a range of emails sent per day. The zero value means none.
type EmailBucket string

// Email buckets.
const (
	EmailNone      EmailBucket = ""
	Email1To10     EmailBucket = "1-10"
	Email11To20    EmailBucket = "11-20"
	Email21To30    EmailBucket = "21-30"
	Email31To40    EmailBucket = "31-40"
	EmailOver40    EmailBucket = ">40"
	emailNoneLabel             = "none"
)

// CloudBucket is a range of cloud storage volume. The zero value means none.
type CloudBucket string

// Cloud storage buckets.
const (
	CloudNone      CloudBucket = ""
	CloudUnder5GB  CloudBucket = "<5GB"
	Cloud5To20GB   CloudBucket = "5-20GB"
	Cloud20To50GB  CloudBucket = "20-50GB"
	Cloud50To100GB CloudBucket = "50-100GB"
)

// IdleBehavior describes what happens to the computer outside working hours.
type IdleBehavior string

// Idle behaviors.
const (
	IdlePowerOff   IdleBehavior = "power_off"
	IdleOn         IdleBehavior = "idle_on"
	IdleNoComputer IdleBehavior = "no_computer"
)

// Category is one of the four footprint categories reported in a Breakdown.
type Category string

// Footprint categories.
const (
	CategoryDevices           Category = "devices"
	CategoryEWaste            Category = "e_waste"
	CategoryDigitalActivities Category = "digital_activities"
	CategoryAITools           Category = "ai_tools"
)

// DeviceEntry is one device instance owned by the user.
type DeviceEntry struct {
	Type          DeviceType `json:"type" yaml:"type"`
	LifespanYears float64    `json:"lifespan_years" yaml:"lifespan_years"`
	Condition     Condition  `json:"condition" yaml:"condition"`
	Sharing       Sharing    `json:"sharing" yaml:"sharing"`
	EndOfLife     EndOfLife  `json:"end_of_life" yaml:"end_of_life"`
}

// DefaultLifespanYears is the lifespan a freshly added device starts with.
const DefaultLifespanYears = 1.0

// NewDeviceEntry returns a device of the given type with the defaults of the
// "add device" action: one year, new, personal, certified collection center.
func NewDeviceEntry(t DeviceType) DeviceEntry {
	return DeviceEntry{
		Type:          t,
		LifespanYears: DefaultLifespanYears,
		Condition:     ConditionNew,
		Sharing:       SharingPersonal,
		EndOfLife:     EOLCertifiedCenter,
	}
}

// ActivityProfile maps an activity to hours per day.
type ActivityProfile map[Activity]float64

// AIUsageProfile maps an AI task to queries per day.
type AIUsageProfile map[AITask]int

// HabitProfile holds email, cloud, printing, connectivity and idle habits.
type HabitProfile struct {
	PlainEmails      EmailBucket  `json:"plain_emails" yaml:"plain_emails"`
	AttachmentEmails EmailBucket  `json:"attachment_emails" yaml:"attachment_emails"`
	CloudStorage     CloudBucket  `json:"cloud_storage" yaml:"cloud_storage"`
	PrintedPages     int          `json:"printed_pages" yaml:"printed_pages"`
	WiFiHours        float64      `json:"wifi_hours" yaml:"wifi_hours"`
	Idle             IdleBehavior `json:"idle_behavior" yaml:"idle_behavior"`
}

// Breakdown is the annual footprint split in four categories, in kg CO2e/year.
// EWaste may be negative when recycling-friendly disposals dominate.
type Breakdown struct {
	Devices           float64 `json:"devices" yaml:"devices"`
	EWaste            float64 `json:"e_waste" yaml:"e_waste"`
	DigitalActivities float64 `json:"digital_activities" yaml:"digital_activities"`
	AITools           float64 `json:"ai_tools" yaml:"ai_tools"`
}

// Total returns the sum of the four categories.
func (b Breakdown) Total() float64 {
	return b.Devices + b.EWaste + b.DigitalActivities + b.AITools
}

// Value returns the figure for a category.
func (b Breakdown) Value(c Category) float64 {
	switch c {
	case CategoryDevices:
		return b.Devices
	case CategoryEWaste:
		return b.EWaste
	case CategoryDigitalActivities:
		return b.DigitalActivities
	case CategoryAITools:
		return b.AITools
	default:
		panic(fmt.Sprintf("footprint: unknown category %q", string(c)))
	}
}

// Categories lists the categories in tie-break priority order:
// Devices, Digital Activities, AI Tools, E-Waste.
func Categories() []Category {
	return []Category{CategoryDevices, CategoryDigitalActivities, CategoryAITools, CategoryEWaste}
}

// Label returns the display name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryDevices:
		return "Devices"
	case CategoryEWaste:
		return "E-Waste"
	case CategoryDigitalActivities:
		return "Digital Activities"
	case CategoryAITools:
		return "AI Tools"
	default:
		return string(c)
	}
}

// normalizeKey folds case, spaces, underscores and dash variants so that
// keys and form labels ("1–10", "> 40", "Staff Member") parse alike.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer("–", "-", "—", "-", "’", "'", " ", "", "_", "", "/", "")
	return r.Replace(s)
}

// parseEnum matches s against the keys and labels of values.
func parseEnum[T ~string](s string, values []T, label func(T) string) (T, bool) {
	n := normalizeKey(s)
	for _, v := range values {
		if n == normalizeKey(string(v)) || n == normalizeKey(label(v)) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Roles returns the three roles in display order.
func Roles() []Role {
	return []Role{RoleStudent, RoleProfessor, RoleStaff}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleActivities[r]
	return ok
}

// Label returns the display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleProfessor:
		return "Professor"
	case RoleStaff:
		return "Staff Member"
	default:
		return string(r)
	}
}

// ParseRole parses a role key or label.
func ParseRole(s string) (Role, error) {
	r, ok := parseEnum(s, Roles(), Role.Label)
	if !ok {
		return "", invalid("role", ErrInvalidRole, "%q", s)
	}
	return r, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	v, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// DeviceTypes returns the device kinds in display order.
func DeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceDesktop, DeviceLaptop, DeviceSmartphone, DeviceTablet,
		DeviceMonitor, DeviceHeadphones, DevicePrinter, DeviceRouter,
	}
}

// Valid reports whether d is a known device type.
func (d DeviceType) Valid() bool {
	_, ok := deviceTable[d]
	return ok
}

// Label returns the display name of the device type.
func (d DeviceType) Label() string {
	if spec, ok := deviceTable[d]; ok {
		return spec.label
	}
	return string(d)
}

// ParseDeviceType parses a device key or label.
func ParseDeviceType(s string) (DeviceType, error) {
	d, ok := parseEnum(s, DeviceTypes(), DeviceType.Label)
	if !ok {
		return "", invalid("type", ErrInvalidDevice, "%q", s)
	}
	return d, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DeviceType) UnmarshalText(text []byte) error {
	v, err := ParseDeviceType(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool { return c == ConditionNew || c == ConditionUsed }

// Label returns the display name of the condition.
func (c Condition) Label() string {
	switch c {
	case ConditionNew:
		return "New"
	case ConditionUsed:
		return "Used"
	default:
		return string(c)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Condition) UnmarshalText(text []byte) error {
	v, ok := parseEnum(string(text), []Condition{ConditionNew, ConditionUsed}, Condition.Label)
	if !ok {
		return invalid("condition", ErrInvalidOption, "%q", string(text))
	}
	*c = v
	return nil
}

// Valid reports whether s is a known sharing mode.
func (s Sharing) Valid() bool { return s == SharingPersonal || s == SharingShared }

// Label returns the display name of the sharing mode.
func (s Sharing) Label() string {
	switch s {
	case SharingPersonal:
		return "Personal"
	case SharingShared:
		return "Shared"
	default:
		return string(s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sharing) UnmarshalText(text []byte) error {
	v, ok := parseEnum(string(text), []Sharing{SharingPersonal, SharingShared}, Sharing.Label)
	if !ok {
		return invalid("sharing", ErrInvalidOption, "%q", string(text))
	}
	*s = v
	return nil
}

// EndOfLifeOptions returns the dispositions in display order.
func EndOfLifeOptions() []EndOfLife {
	return []EndOfLife{
		EOLCertifiedCenter, EOLGeneralWaste, EOLManufacturerReturn, EOLResaleDonation, EOLHomeStorage,
	}
}

// Valid reports whether e is a known disposition.
func (e EndOfLife) Valid() bool {
	_, ok := eolTable[e]
	return ok
}

// Label returns the wording of the disposition.
func (e EndOfLife) Label() string {
	if spec, ok := eolTable[e]; ok {
		return spec.label
	}
	return string(e)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *EndOfLife) UnmarshalText(text []byte) error {
	v, ok := parseEnum(string(text), EndOfLifeOptions(), EndOfLife.Label)
	if !ok {
		return invalid("end_of_life", ErrInvalidOption, "%q", string(text))
	}
	*e = v
	return nil
}

// AITasks returns the twelve AI tasks in display order.
func AITasks() []AITask {
	return []AITask{
		TaskSummarize, TaskTranslate, TaskExplainConcept, TaskGenerateQuizzes,
		TaskWriteEmails, TaskCorrectGrammar, TaskAnalyzePDFs, TaskWriteCode,
		TaskGenerateImages, TaskBrainstorm, TaskExplainCode, TaskPrepareLessons,
	}
}

// Valid reports whether t is a known AI task.
func (t AITask) Valid() bool {
	_, ok := aiTable[t]
	return ok
}

// Label returns the wording of the task.
func (t AITask) Label() string {
	if spec, ok := aiTable[t]; ok {
		return spec.label
	}
	return string(t)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *AITask) UnmarshalText(text []byte) error {
	v, ok := parseEnum(string(text), AITasks(), AITask.Label)
	if !ok {
		return invalid("ai_usage", ErrUnknownTask, "%q", string(text))
	}
	*t = v
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Activity keys are not
// checked here because validity depends on the role.
func (a *Activity) UnmarshalText(text []byte) error {
	*a = Activity(strings.TrimSpace(string(text)))
	return nil
}

// EmailBuckets returns the email buckets, none first.
func EmailBuckets() []EmailBucket {
	return []EmailBucket{EmailNone, Email1To10, Email11To20, Email21To30, Email31To40, EmailOver40}
}

// Valid reports whether b is a known bucket.
func (b EmailBucket) Valid() bool {
	_, ok := emailMidpoints[b]
	return ok
}

// Label returns the display form of the bucket.
func (b EmailBucket) Label() string {
	if b == EmailNone {
		return emailNoneLabel
	}
	return string(b)
}

// MarshalText implements encoding.TextMarshaler.
func (b EmailBucket) MarshalText() ([]byte, error) { return []byte(b.Label()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *EmailBucket) UnmarshalText(text []byte) error {
	v, ok := parseEnum(string(text), EmailBuckets(), EmailBucket.Label)
	if !ok {
		return invalid("email", ErrInvalidBucket, "%q", string(text))
	}
	*b = v
	return nil
}

// CloudBuckets returns the cloud buckets, none first.
func CloudBuckets() []CloudBucket {
	return []CloudBucket{CloudNone, CloudUnder5GB, Cloud5To20GB, Cloud20To50GB, Cloud50To100GB}
}

// Valid reports whether b is a known bucket.
func (b CloudBucket) Valid() bool {
	_, ok := cloudMidpoints[b]
	return ok
}

// Label returns the display form of the bucket.
func (b CloudBucket) Label() string {
	if b == CloudNone {
		return emailNoneLabel
	}
	return string(b)
}

// MarshalText implements encoding.TextMarshaler.
func (b CloudBucket) MarshalText() ([]byte, error) { return []byte(b.Label()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *CloudBucket) UnmarshalText(text []byte) error {
	v, ok := parseEnum(string(text), CloudBuckets(), CloudBucket.Label)
	if !ok {
		return invalid("cloud_storage", ErrInvalidBucket, "%q", string(text))
	}
	*b = v
	return nil
}

// IdleBehaviors returns the idle behaviors in display order.
func IdleBehaviors() []IdleBehavior {
	return []IdleBehavior{IdlePowerOff, IdleOn, IdleNoComputer}
}

// Valid reports whether i is a known idle behavior.
func (i IdleBehavior) Valid() bool {
	_, ok := idleKgPerHour[i]
	return ok
}

// Label returns the wording of the idle behavior.
func (i IdleBehavior) Label() string {
	switch i {
	case IdlePowerOff:
		return "I turn it off"
	case IdleOn:
		return "I leave it on (idle mode)"
	case IdleNoComputer:
		return "I don't have a computer"
	default:
		return string(i)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *IdleBehavior) UnmarshalText(text []byte) error {
	v, ok := parseEnum(string(text), IdleBehaviors(), IdleBehavior.Label)
	if !ok {
		return invalid("idle_behavior", ErrInvalidIdle, "%q", string(text))
	}
	*i = v
	return nil
}
