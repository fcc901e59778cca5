package permission

import "github.com/hyunwoopark/meritpoint/internal/model"

// Authorized reports whether the granted capability set satisfies the
// required set: true iff the intersection is non-empty. Every call site
// lists the capabilities that satisfy it explicitly; Admin is not a
// blanket bypass.
func Authorized(granted, required []model.Capability) bool {
	for _, r := range required {
		for _, g := range granted {
			if g == r {
				return true
			}
		}
	}
	return false
}
