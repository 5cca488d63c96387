package cache

// Key identifies a cache entry by provider identity and city. Two providers
// never share an entry for the same city string.
type Key struct {
	Provider string `json:"provider"`
	City     string `json:"city"`
}

func NewKey(provider, city string) Key {
	return Key{Provider: provider, City: city}
}

func (k Key) String() string {
	return k.Provider + "." + k.City
}

// Less orders keys by provider, then city.
func (k Key) Less(o Key) bool {
	if k.Provider != o.Provider {
		return k.Provider < o.Provider
	}
	return k.City < o.City
}
