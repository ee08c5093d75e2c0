package output

type Option func(w *Writer)

// WithOverwrite allows Save to replace an existing file.
func WithOverwrite(overwrite bool) Option {
	return func(w *Writer) {
		w.overwrite = overwrite
	}
}
