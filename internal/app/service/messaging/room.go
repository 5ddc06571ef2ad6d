package messaging

// DeriveRoomKey builds the conversation index for a participant pair. The two
// ids are ordered lexicographically before joining, so both directions of the
// same conversation map to one key.
func DeriveRoomKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
