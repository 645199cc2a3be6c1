package fixes

import (
	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/engine"
)

const (
	shotXOriginal = "g_advdrastic.iDisplay_width - (NDS_W + g_advdrastic.iDisplay_width * 10 / 640)"
	// some revisions carry a double space before "* 10"
	shotXDoubleSpace = "g_advdrastic.iDisplay_width - (NDS_W + g_advdrastic.iDisplay_width  * 10 / 640)"
	shotXPatched     = "g_advdrastic.iDisplay_width - g_advdrastic.iDisplay_width * 90 / 640 - NDS_W"
)

// Menu customizes the hook menu text and savestate screenshot position.
func Menu() core.Fix {
	return core.Fix{
		ID:      "menu",
		Summary: "menu version label, exit label and screenshot position",
		Targets: []string{"drastic_video.c"},
		Doc: `# menu

* **version-label**: ` + "`NDS r2.5.2.0`" + ` becomes ` + "`Advanced NDS`" + `.
* **exit-label**: ` + "`Exit DraStic-trngaje`" + ` becomes ` + "`Exit DraStic`" + `.
* **screenshot-position**: the savestate screenshot moves next to the menu
  instead of the far right; every occurrence is rewritten and counted.
`,
		Rules: []core.Rule{
			{
				Name:  "version-label",
				Tiers: []core.Tier{engine.Once(`sprintf(buf, "NDS %s", &p->msg[8]);`, `sprintf(buf, "Advanced NDS");`)},
			},
			{
				Name:  "exit-label",
				Tiers: []core.Tier{engine.Everywhere("Exit DraStic-trngaje", "Exit DraStic")},
			},
			{
				Name:  "screenshot-position",
				Tiers: []core.Tier{engine.Everywhere(shotXOriginal, shotXPatched, shotXDoubleSpace)},
			},
		},
	}
}
