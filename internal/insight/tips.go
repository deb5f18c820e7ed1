package insight

import (
	"strings"

	"github.com/greendilt/digicarbon/internal/footprint"
)

// TipSeparator separates a tip's headline from its detail.
const TipSeparator = " – "

//nolint:gochecknoglobals // Immutable reference table.
var tipTable = map[footprint.Category][]string{
	footprint.CategoryDevices: {
		"Turn off devices when not in use – Even in standby mode, they consume energy. " +
			"Powering them off saves electricity and extends their lifespan.",
		"Update software regularly – This enhances efficiency and performance, often reducing energy consumption.",
		"Activate power-saving settings, reduce screen brightness and enable dark mode – This lowers energy use.",
		"Choose accessories made from recycled or sustainable materials – " +
			"This minimizes the environmental impact of your tech choices.",
	},
	footprint.CategoryEWaste: {
		"Avoid upgrading devices every year – Extending device lifespan significantly reduces environmental impact.",
		"Repair instead of replacing – Fix broken electronics whenever possible to avoid unnecessary waste.",
		"Consider buying refurbished devices – They're often as good as new, " +
			"but with a much lower environmental footprint.",
		"Recycle unused electronics properly – Don't store old devices at home or dispose of them in the environment! " +
			"E-waste contains polluting and valuable materials that need specialized treatment.",
	},
	footprint.CategoryDigitalActivities: {
		"Use your internet mindfully – Close unused apps, avoid sending large attachments, " +
			"and turn off video during calls when not essential.",
		"Declutter your digital space – Regularly delete unnecessary files, empty trash and spam folders, " +
			"and clean up cloud storage to reduce digital pollution.",
		"Share links instead of attachments – For example, link to a document on OneDrive or Google Drive " +
			"instead of attaching it in an email.",
		"Use instant messaging for short, urgent messages – It's more efficient than email for quick communications.",
	},
	footprint.CategoryAITools: {
		"Use search engines for simple tasks – They consume far less energy than AI tools.",
		"Disable AI-generated results in search engines – (e.g., on Bing: go to Settings > Search > " +
			"Uncheck \"Include AI-powered answers\" or similar option)",
		"Prefer smaller AI models when possible – For basic tasks, use lighter versions like GPT-4o-mini " +
			"instead of more energy-intensive models.",
		"Be concise in AI prompts and require concise answers – Short inputs and outputs require less processing.",
	},
}

// Tips returns a copy of the fixed tip list of a category. It panics on an
// unknown category.
func Tips(c footprint.Category) []string {
	tips, ok := tipTable[c]
	if !ok {
		panic("insight: no tips for category " + string(c))
	}
	return append([]string(nil), tips...)
}

// SplitTip separates a tip into its headline and detail. Tips without a
// separator are all headline.
func SplitTip(tip string) (headline, detail string) {
	headline, detail, _ = strings.Cut(tip, TipSeparator)
	return headline, detail
}
