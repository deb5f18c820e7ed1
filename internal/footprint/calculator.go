package footprint

// DeviceShare is the yearly production and end-of-life share of one device.
type DeviceShare struct {
	Entry            DeviceEntry `json:"entry"`
	AdjustedLifespan float64     `json:"adjusted_lifespan_years"`
	Production       float64     `json:"production"`
	EndOfLife        float64     `json:"end_of_life"`
}

// AdjustedLifespan scales the declared lifespan by the condition/sharing
// multiplier. Used and shared devices amortize their embodied emissions over
// more effective years of service.
func AdjustedLifespan(d DeviceEntry) float64 {
	return d.LifespanYears * LifespanMultiplier(d.Condition, d.Sharing)
}

// deviceShare amortizes the embodied emissions of one device.
func deviceShare(d DeviceEntry) DeviceShare {
	embodied := d.Type.EmbodiedKg()
	adjusted := AdjustedLifespan(d)
	return DeviceShare{
		Entry:            d,
		AdjustedLifespan: adjusted,
		Production:       embodied / adjusted,
		EndOfLife:        embodied * d.EndOfLife.Modifier() / adjusted,
	}
}

// ComputeDeviceShares returns the per-device detail behind
// ComputeDeviceFootprint, in input order.
func ComputeDeviceShares(devices []DeviceEntry) []DeviceShare {
	shares := make([]DeviceShare, 0, len(devices))
	for _, d := range devices {
		shares = append(shares, deviceShare(d))
	}
	return shares
}

// ComputeDeviceFootprint returns the yearly production and end-of-life
// emissions summed over all devices. An empty list yields (0, 0).
func ComputeDeviceFootprint(devices []DeviceEntry) (production, eol float64) {
	for _, d := range devices {
		s := deviceShare(d)
		production += s.Production
		eol += s.EndOfLife
	}
	return production, eol
}

// ComputeActivityFootprint returns the yearly emissions of the role's daily
// activities. Activities outside the role's set contribute nothing.
func ComputeActivityFootprint(role Role, activities ActivityProfile) float64 {
	total := 0.0
	for _, f := range role.Activities() {
		total += activities[f.Activity] * f.KgPerHour * WorkingDaysPerYear
	}
	return total
}

// ComputeHabitFootprint returns the yearly emissions of email, cloud storage,
// Wi-Fi, printing and idle power.
func ComputeHabitFootprint(h HabitProfile) float64 {
	email := h.PlainEmails.Midpoint()*EmailPlainKg*WorkingDaysPerYear +
		h.AttachmentEmails.Midpoint()*EmailAttachmentKg*WorkingDaysPerYear
	// Cloud storage is a standing allocation, not a daily event.
	cloud := h.CloudStorage.Midpoint() * CloudKgPerGB
	wifi := h.WiFiHours * WiFiKgPerHour * WorkingDaysPerYear
	printing := float64(h.PrintedPages) * PrintKgPerPage * WorkingDaysPerYear
	idle := WorkingDaysPerYear * h.Idle.KgPerHour() * IdleHoursPerDay
	return email + cloud + wifi + printing + idle
}

// ComputeDigitalActivityFootprint returns the Digital Activities category:
// role activities plus habits.
func ComputeDigitalActivityFootprint(role Role, activities ActivityProfile, habits HabitProfile) float64 {
	return ComputeActivityFootprint(role, activities) + ComputeHabitFootprint(habits)
}

// ComputeAIFootprint returns the yearly emissions of AI queries.
func ComputeAIFootprint(ai AIUsageProfile) float64 {
	total := 0.0
	for _, t := range AITasks() {
		total += float64(ai[t]) * t.KgPerQuery() * WorkingDaysPerYear
	}
	return total
}

// ComputeBreakdown combines the device, digital activity and AI computations
// into the four reported categories.
func ComputeBreakdown(
	devices []DeviceEntry,
	role Role,
	activities ActivityProfile,
	habits HabitProfile,
	ai AIUsageProfile,
) Breakdown {
	production, eol := ComputeDeviceFootprint(devices)
	return Breakdown{
		Devices:           production,
		EWaste:            eol,
		DigitalActivities: ComputeDigitalActivityFootprint(role, activities, habits),
		AITools:           ComputeAIFootprint(ai),
	}
}
