package fixes

import (
	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/engine"
)

const (
	flipTail       = "    drm_buf.fb_id = fb;\n    drm_buf.previous_bo = bo;\n#endif"
	flipTailClosed = "    drm_buf.fb_id = fb;\n    drm_buf.previous_bo = bo;\n    }\n#endif"
)

// Perf removes the front-buffer lock taken before eglSwapBuffers in GFX_Flip.
func Perf() core.Fix {
	return core.Fix{
		ID:      "perf",
		Summary: "lock the GBM front buffer once, after the swap",
		Targets: []string{"drastic_video.c"},
		Doc: `# perf

` + "`GFX_Flip()`" + ` called ` + "`gbm_surface_lock_front_buffer()`" + ` before
` + "`eglSwapBuffers()`" + `, taking a GBM slot that was never released because the
pointer was overwritten by the second lock. The rewrite locks once, after the
swap, inside a new scope; the **close-scope** post-condition closes that scope
before the ` + "`#endif`" + ` that follows the rewritten code.
`,
		Rules: []core.Rule{{
			Name:  "gfx-flip-single-lock",
			Tiers: []core.Tier{engine.Once(gfxFlipOriginal, gfxFlipPatched)},
			PostConditions: []core.PostCondition{{
				Name:        "close-scope",
				Locator:     flipTail,
				Replacement: flipTailClosed,
			}},
		}},
	}
}
