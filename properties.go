package tmx

// extractProperties copies every <property> of n's <properties> child into
// dst. Later entries override earlier ones. A property without a value
// attribute carries its value as text, which is how Tiled stores multi-line
// strings.
func extractProperties(n *node, dst map[string]string) {
	props := n.child("properties")
	if props == nil {
		return
	}
	for _, p := range props.children("property") {
		name, ok := p.attr("name")
		if !ok {
			continue
		}
		value, ok := p.attr("value")
		if !ok {
			value = p.Text
		}
		dst[name] = value
	}
}
