package remote

type CompositeResponse struct {
	Width  int
	Height int
	Image  []byte
}
