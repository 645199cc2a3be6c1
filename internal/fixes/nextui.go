package fixes

import "github.com/sevigo/srcfix/internal/core"

// NextUIPatch is the companion diff applied by the external patch tool.
const NextUIPatch = "fix-nextui.patch"

// NextUI applies the NextUI customizations, kept as a unified diff.
func NextUI() core.Fix {
	return core.Fix{
		ID:      "nextui",
		Summary: "NextUI customizations (delegated unified diff)",
		Targets: []string{"drastic_video.c"},
		Doc: `# nextui

Applied with ` + "`patch --forward -p0`" + ` from the SDL_drastic root, two levels
above *src/video/drastic_video.c*. The diff (` + "`fix-nextui.patch`" + `) must sit in
the patch directory.

1. async DRM page flip with a poll/event handler
2. hide "Load new game" and skip hidden items in GUI input
3. drop "Change Steward Options" and fix item count/indices
4. re-enable and null-check the bg0/bg1 menu backgrounds
5. show the version from the drastic header
6. layout cycling uses normal layouts (hres_mode=0)
7. theme cycling for all non-transparent layouts
8. no automatic hres_mode switching in process_screen
9. render both screens for all layouts
10. hook sdl_get_gui_input for d-pad/button handling
11. debug logging for hotkey combos and the config map

Runs after **menu**: its hunks carry the menu edits as context.
`,
		Patch: &core.PatchSpec{File: NextUIPatch},
	}
}
