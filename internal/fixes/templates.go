package fixes

// Literal C text the catalog rewrites from and to. Kept byte-exact: the exact
// tier only matches when every tab and space agrees with upstream.

const drmInitOriginal = `int drm_init()
{
	// Open Dri
	dri_fd = open("/dev/dri/card0", O_RDWR | O_CLOEXEC);
	if(dri_fd < 0){
		printf("dri wrong\n");
		return -1;
	}
        printf("fd flags: 0x%x\n", fcntl(dri_fd, F_GETFL));

	res = drmModeGetResources(dri_fd);
	crtc_id = res->crtcs[0];
	conn_id = res->connectors[1];
	printf("crtc = %d , conneter = %d\n",crtc_id,conn_id);

	conn = drmModeGetConnector(dri_fd, conn_id);
	drm_buf.width = conn->modes[0].hdisplay;
	drm_buf.height = conn->modes[0].vdisplay;

	printf("width = %d , height = %d\n",drm_buf.width,drm_buf.height);

	drm_create_fb(&drm_buf);
	
	// Init GBM Device
	drm_buf.gbm = gbm_create_device(dri_fd);
	if (!drm_buf.gbm) {
		fprintf(stderr, "Cannot create gbm device\n");
		return -1;
	}
	drm_buf.gbm_surface = gbm_surface_create(
		drm_buf.gbm,
		640,
		480,
		GBM_FORMAT_ARGB8888,
		GBM_BO_USE_SCANOUT | GBM_BO_USE_RENDERING
	);

	if (!drm_buf.gbm_surface) {
		fprintf(stderr, "Cannot create gbm surface\n");
		return -1;
	}
	//Set CRTCS
	drmModeSetCrtc(dri_fd, crtc_id, drm_buf.fb_id,
			0, 0, &conn_id, 1, &conn->modes[0]);

	return 0;
}`

const drmInitPatched = `int drm_init()
{
	// Open DRI
	dri_fd = open("/dev/dri/card0", O_RDWR | O_CLOEXEC);
	if (dri_fd < 0) {
		printf("drm_init: failed to open /dev/dri/card0\n");
		return -1;
	}
	printf("drm_init: fd=%d flags=0x%x\n", dri_fd, fcntl(dri_fd, F_GETFL));

	res = drmModeGetResources(dri_fd);
	if (!res) {
		printf("drm_init: drmModeGetResources failed\n");
		return -1;
	}
	printf("drm_init: connectors=%d, crtcs=%d\n", res->count_connectors, res->count_crtcs);

	// Auto-detect connected connector
	conn_id = 0;
	crtc_id = 0;
	for (int i = 0; i < res->count_connectors; i++) {
		drmModeConnector *c = drmModeGetConnector(dri_fd, res->connectors[i]);
		if (c && c->connection == DRM_MODE_CONNECTED && c->count_modes > 0) {
			conn_id = c->connector_id;
			printf("drm_init: found connected connector %d (type=%d)\n", conn_id, c->connector_type);
			if (c->encoder_id) {
				drmModeEncoder *enc = drmModeGetEncoder(dri_fd, c->encoder_id);
				if (enc) {
					crtc_id = enc->crtc_id;
					drmModeFreeEncoder(enc);
				}
			}
			drmModeFreeConnector(c);
			break;
		}
		if (c) drmModeFreeConnector(c);
	}
	if (!conn_id) {
		conn_id = res->connectors[0];
		printf("drm_init: no connected connector found, using first: %d\n", conn_id);
	}
	if (!crtc_id && res->count_crtcs > 0) {
		crtc_id = res->crtcs[0];
	}
	printf("drm_init: crtc=%d, connector=%d\n", crtc_id, conn_id);

	conn = drmModeGetConnector(dri_fd, conn_id);
	if (!conn) {
		printf("drm_init: drmModeGetConnector failed\n");
		return -1;
	}
	drm_buf.width = conn->modes[0].hdisplay;
	drm_buf.height = conn->modes[0].vdisplay;
	printf("drm_init: display %dx%d\n", drm_buf.width, drm_buf.height);

	drm_create_fb(&drm_buf);

	// Init GBM Device
	drm_buf.gbm = gbm_create_device(dri_fd);
	if (!drm_buf.gbm) {
		fprintf(stderr, "drm_init: cannot create GBM device\n");
		return -1;
	}
	drm_buf.gbm_surface = gbm_surface_create(
		drm_buf.gbm,
		drm_buf.width,
		drm_buf.height,
		GBM_FORMAT_ARGB8888,
		GBM_BO_USE_SCANOUT | GBM_BO_USE_RENDERING
	);
	if (!drm_buf.gbm_surface) {
		fprintf(stderr, "drm_init: cannot create GBM surface (%dx%d)\n", drm_buf.width, drm_buf.height);
		return -1;
	}
	printf("drm_init: GBM surface %dx%d created\n", drm_buf.width, drm_buf.height);

	// Set CRTC
	int ret = drmModeSetCrtc(dri_fd, crtc_id, drm_buf.fb_id,
			0, 0, &conn_id, 1, &conn->modes[0]);
	if (ret < 0) {
		printf("drm_init: drmModeSetCrtc failed: %d\n", ret);
	}

	return 0;
}`

const dummyIncludesOriginal = `#include "SDL_hints.h"`

const dummyIncludesPatched = `#include "SDL_hints.h"

#ifdef ADVDRASTIC_DRM
#include <fcntl.h>
#include <unistd.h>
#include <xf86drm.h>
#include <xf86drmMode.h>
#endif`

const dummyModeOriginal = `    /* Use a fake 32-bpp desktop mode */
    SDL_zero(mode);
    mode.format = SDL_PIXELFORMAT_RGB888;
    mode.w = 1024;
    mode.h = 768;
    mode.refresh_rate = 60;
    mode.driverdata = NULL;`

const dummyModePatched = `    /* Use a fake 32-bpp desktop mode */
    SDL_zero(mode);
    mode.format = SDL_PIXELFORMAT_RGB888;
    mode.w = 1024;
    mode.h = 768;
    mode.refresh_rate = 60;
    mode.driverdata = NULL;

#ifdef ADVDRASTIC_DRM
    /* Query actual display resolution from DRM */
    {
        int dri_fd = open("/dev/dri/card0", O_RDWR | O_CLOEXEC);
        if (dri_fd >= 0) {
            drmModeRes *res = drmModeGetResources(dri_fd);
            if (res) {
                int i;
                for (i = 0; i < res->count_connectors; i++) {
                    drmModeConnector *conn = drmModeGetConnector(dri_fd, res->connectors[i]);
                    if (conn && conn->connection == DRM_MODE_CONNECTED && conn->count_modes > 0) {
                        mode.w = conn->modes[0].hdisplay;
                        mode.h = conn->modes[0].vdisplay;
                        mode.refresh_rate = conn->modes[0].vrefresh;
                        printf("[SDL dummy] DRM display: %dx%d@%d\n", mode.w, mode.h, mode.refresh_rate);
                        drmModeFreeConnector(conn);
                        break;
                    }
                    if (conn) drmModeFreeConnector(conn);
                }
                drmModeFreeResources(res);
            }
            close(dri_fd);
        }
    }
#endif`

const gfxFlipOriginal = `void GFX_Flip(void)
{
#ifdef ADVDRASTIC_DRM
    struct gbm_bo *bo = gbm_surface_lock_front_buffer(drm_buf.gbm_surface);
    uint32_t handle = gbm_bo_get_handle(bo).u32;
    uint32_t pitch = gbm_bo_get_stride(bo);
    uint32_t fb;
#endif

    eglSwapBuffers(vid.eglDisplay, vid.eglSurface);

#ifdef ADVDRASTIC_DRM
    // GBM Buffer Swap
    bo = gbm_surface_lock_front_buffer(drm_buf.gbm_surface);
    handle = gbm_bo_get_handle(bo).u32;
    pitch = gbm_bo_get_stride(bo);`

const gfxFlipPatched = `void GFX_Flip(void)
{
    eglSwapBuffers(vid.eglDisplay, vid.eglSurface);

#ifdef ADVDRASTIC_DRM
    {
    struct gbm_bo *bo;
    uint32_t handle, pitch, fb;

    // Lock the front buffer AFTER swap (not before)
    bo = gbm_surface_lock_front_buffer(drm_buf.gbm_surface);
    handle = gbm_bo_get_handle(bo).u32;
    pitch = gbm_bo_get_stride(bo);`
