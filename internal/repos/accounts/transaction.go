package accounts

// WithTx runs fn inside a store transaction and returns its result.
// On error the zero T is returned and nothing fn wrote is kept.
func WithTx[T any](store Store, fn func(tx Tx) (T, error)) (T, error) {
	var out T

	err := store.RunTransaction(func(tx Tx) error {
		res, err := fn(tx)
		if err != nil {
			return err
		}

		out = res

		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return out, nil
}
