package node

func ptr[T any](v T) *T {
	return &v
}
