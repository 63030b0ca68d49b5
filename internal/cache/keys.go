package cache

// KeyPrefix groups cache keys by record type.
type KeyPrefix string

const (
	PrefixResolution KeyPrefix = "share" // share:shortID
)

// KeyBuilder builds namespaced cache keys.
type KeyBuilder struct {
	namespace string
}

func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)

	if k.namespace != "" {
		key = k.namespace + ":" + key
	}

	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// Resolution returns the key holding the cached resolution for a short id.
func (k *KeyBuilder) Resolution(shortID string) string {
	return k.Build(PrefixResolution, shortID)
}
