package outputs

import (
	"sort"

	"vault/core"
)

// Sort puts outputs into chain order: by created at, trace id breaking
// ties. The payee relies on this order being stable across members.
func Sort(outputs []*core.Output) {
	sort.Slice(outputs, func(i, j int) bool {
		a, b := outputs[i], outputs[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}

		return a.TraceID < b.TraceID
	})
}
