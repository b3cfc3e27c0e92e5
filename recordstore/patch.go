package recordstore

// Patcher applies a sparse set of field changes to a record. Implementations
// are built from record.Optional fields so an absent field and an explicit
// zero value stay distinguishable:
//
//	type AccountPatch struct {
//		HolderName record.Optional[string] `json:"holder_name"`
//		Active     record.Optional[bool]   `json:"active"`
//	}
//
//	func (p AccountPatch) Apply(a *Account) {
//		p.HolderName.Apply(&a.HolderName)
//		p.Active.Apply(&a.Active)
//	}
//
// Only fields the patch explicitly carries overwrite the record; everything
// else is left unchanged.
type Patcher[T any] interface {
	Apply(rec T)
}

// PatchFunc adapts a plain function to the Patcher interface for one-off
// merges in tests or call sites that do not warrant a named patch type.
type PatchFunc[T any] func(rec T)

// Apply implements Patcher.
func (f PatchFunc[T]) Apply(rec T) { f(rec) }
