package fixes

import (
	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/engine"
)

// connectorProbe replaces the hardcoded second connector when drm_init() itself
// could not be located. It is indented by the line it replaces.
const connectorProbe = `// Auto-detect connected connector
conn_id = 0;
for (int i = 0; i < res->count_connectors; i++) {
	drmModeConnector *c = drmModeGetConnector(dri_fd, res->connectors[i]);
	if (c && c->connection == DRM_MODE_CONNECTED && c->count_modes > 0) {
		conn_id = c->connector_id;
		drmModeFreeConnector(c);
		break;
	}
	if (c) drmModeFreeConnector(c);
}
if (!conn_id)
	conn_id = res->connectors[0];`

// DRMInit auto-detects the connected DRM connector and sizes the GBM surface from
// the display mode instead of 640x480.
func DRMInit() core.Fix {
	return core.Fix{
		ID:      "drm-init",
		Summary: "auto-detect DRM connector, size GBM surface from the display",
		Targets: []string{"drastic_video.c"},
		Doc: `# drm-init

Rewrites ` + "`drm_init()`" + ` in *drastic_video.c*.

* ` + "`conn_id = res->connectors[1]`" + ` picks a connector that may not exist. The
  rewrite walks every connector and takes the first connected one with modes,
  then uses its encoder's CRTC.
* ` + "`gbm_surface_create(..., 640, 480, ...)`" + ` ignores the real display size; the
  surface now uses ` + "`drm_buf.width`/`drm_buf.height`" + `.

Tiers: exact function text, then the ` + "`drm_init()`" + ` block containing
` + "`drmModeSetCrtc`" + `, then line edits on the connector line and inside the
` + "`gbm_surface_create`" + ` call.
`,
		Rules: []core.Rule{{
			Name: "drm_init",
			Tiers: []core.Tier{
				engine.Once(drmInitOriginal, drmInitPatched),
				engine.Braces("int drm_init()", "drmModeSetCrtc", drmInitPatched),
				engine.LineHeuristic{Windows: []engine.Window{
					{
						Name:           "connector",
						Trigger:        "conn_id = res->connectors[1];",
						IncludeTrigger: true,
						MaxLines:       1,
						Subs:           []engine.LineSub{{Old: "conn_id = res->connectors[1];", New: connectorProbe}},
						Done:           "// Auto-detect connected connector",
					},
					{
						Name:     "gbm-surface-size",
						Trigger:  "gbm_surface_create",
						Sentinel: "GBM_FORMAT",
						MaxLines: 6,
						Subs: []engine.LineSub{
							{Old: "640", New: "drm_buf.width", Token: true},
							{Old: "480", New: "drm_buf.height", Token: true},
						},
					},
				}},
			},
		}},
	}
}
