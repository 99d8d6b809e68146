package dashboard

import "github.com/urbanii/monitor-client/pkg/types"

// Renderer consumes finished display state. Implementations own all
// presentation concerns; the poller never reads anything back from them.
// Video frames are opaque resources fetched by reference and handed over
// as-is. The health signal is independent of the video connection flag;
// reconciling the two is the renderer's call.
type Renderer interface {
	ShowView(view ViewState)
	ShowFrame(frame []byte)
	ShowVideoError()
	ShowHealth(healthy bool)
	ShowScenes(scenes map[string]types.Scene, active string)
}
