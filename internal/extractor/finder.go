package extractor

// IsTrack reports whether o looks like a track record: a name-like field
// plus at least one corroborating field.
func IsTrack(o *Object) bool {
	if o == nil || !songNameKeys.intersects(o) {
		return false
	}
	for _, ks := range corroboratingKeySets {
		if ks.intersects(o) {
			return true
		}
	}
	return false
}

// FindRecords walks every blob and returns the objects that pass IsTrack,
// in document order.
//
// The walk uses an explicit stack so that nesting depth never grows the call
// stack. A record is a leaf except for arrays held under track-list keys,
// whose elements are still inspected.
func FindRecords(blobs []*Value) []*Object {
	records := make([]*Object, 0)

	stack := make([]*Value, 0, len(blobs))
	for i := len(blobs) - 1; i >= 0; i-- {
		stack = append(stack, blobs[i])
	}

	pushReversed := func(values []*Value) {
		for i := len(values) - 1; i >= 0; i-- {
			if values[i] != nil {
				stack = append(stack, values[i])
			}
		}
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}

		switch node.Kind {
		case KindObject:
			if node.Object == nil {
				continue
			}
			if IsTrack(node.Object) {
				records = append(records, node.Object)
				pushReversed(nestedTrackLists(node.Object))
				continue
			}
			pushReversed(node.Object.Values())
		case KindArray:
			pushReversed(node.Items)
		}
	}

	return records
}

// nestedTrackLists returns the elements of every array stored under a
// track-list key of o, in key order.
func nestedTrackLists(o *Object) []*Value {
	var items []*Value
	for _, key := range o.Keys() {
		if !trackListKeys.contains(key) {
			continue
		}
		v, _ := o.Get(key)
		if v != nil && v.Kind == KindArray {
			items = append(items, v.Items...)
		}
	}
	return items
}
