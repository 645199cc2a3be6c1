package fixes

import (
	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/engine"
)

// DummyResolution makes the SDL2 dummy video driver report the DRM display mode
// instead of its hardcoded 1024x768.
func DummyResolution() core.Fix {
	return core.Fix{
		ID:      "dummy-resolution",
		Summary: "query the DRM display mode in the SDL dummy video driver",
		Targets: []string{"SDL_nullvideo.c"},
		Doc: `# dummy-resolution

The dummy driver advertises 1024x768, so ` + "`SDL_GetCurrentDisplayMode()`" + `
returns the wrong size on a 1280x720 panel and the picture is truncated.

1. **drm-includes** adds the DRM headers after ` + "`SDL_hints.h`" + ` behind
   ` + "`ADVDRASTIC_DRM`" + `.
2. **drm-mode-query** asks DRM for the first connected connector's mode at
   ` + "`DUMMY_VideoInit`" + ` time and keeps 1024x768 as the fallback. When the block
   cannot be found the mode is pinned to 1280x720 line by line.
`,
		Rules: []core.Rule{
			{
				Name:  "drm-includes",
				Tiers: []core.Tier{engine.Once(dummyIncludesOriginal, dummyIncludesPatched)},
			},
			{
				Name: "drm-mode-query",
				Tiers: []core.Tier{
					engine.Once(dummyModeOriginal, dummyModePatched),
					engine.LineHeuristic{Windows: []engine.Window{{
						Name:     "fixed-mode",
						Trigger:  "mode.format = SDL_PIXELFORMAT_RGB888;",
						Sentinel: "mode.h",
						MaxLines: 3,
						Subs: []engine.LineSub{
							{Old: "1024", New: "1280", Token: true},
							{Old: "768", New: "720", Token: true},
						},
					}}},
				},
			},
		},
	}
}
