package cart

// Recorder receives cart telemetry. *metrics.Storefront satisfies it.
type Recorder interface {
	CartOp(op string)
	PersistFailure(op string)
	SnapshotDiscarded(reason string)
}

type nopRecorder struct{}

func (nopRecorder) CartOp(string)            {}
func (nopRecorder) PersistFailure(string)    {}
func (nopRecorder) SnapshotDiscarded(string) {}

const (
	opAdd         = "add_item"
	opRemove      = "remove_item"
	opUpdate      = "update_quantity"
	opToggleAddOn = "toggle_add_on"
	opClear       = "clear"

	opLoad = "load"
	opSave = "save"
)

const (
	discardCorrupt   = "corrupt"
	discardVersion   = "unknown_version"
	discardInvariant = "invariant_violation"
)
