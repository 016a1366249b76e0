package node

// Rekey returns deep copies of nodes with every identifier replaced through a
// single old→new mapping, so that the same old id always maps to the same new
// id within one call. Parent references into the copied set are rewritten;
// references that point outside the set are kept as-is.
//
// The returned mapping covers every identifier that was re-keyed.
func Rekey(nodes []*Node, gen func() string) ([]*Node, map[string]string) {
	mapping := make(map[string]string)
	key := func(old string) string {
		if old == "" {
			return ""
		}
		if nw, ok := mapping[old]; ok {
			return nw
		}
		nw := gen()
		mapping[old] = nw
		return nw
	}

	inSet := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		inSet[n.ID] = true
	}

	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		c := n.Clone()
		c.ID = key(n.ID)
		c.SharedID = key(n.SharedID)
		c.DynamicFamilyID = key(n.DynamicFamilyID)
		c.VariantResponsiveID = key(n.VariantResponsiveID)
		if inSet[n.ParentID] {
			c.ParentID = key(n.ParentID)
		}
		if inSet[n.DynamicParentID] {
			c.DynamicParentID = key(n.DynamicParentID)
		}
		if inSet[n.VariantParentID] {
			c.VariantParentID = key(n.VariantParentID)
		}
		for j := range c.Variants {
			c.Variants[j].ID = key(c.Variants[j].ID)
		}
		out[i] = c
	}
	return out, mapping
}
