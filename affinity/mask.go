// File: affinity/mask.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package affinity

import "github.com/momentics/corehop/api"

// coresFromMask lists the set bits of a 64-bit CPU mask in ascending order.
func coresFromMask(mask uint64) []api.CoreID {
	var cores []api.CoreID
	for i := 0; i < 64; i++ {
		if mask&(1<<uint(i)) != 0 {
			cores = append(cores, api.CoreID(i))
		}
	}
	return cores
}
