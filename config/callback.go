package config

// ConfigCallback collects functions to run once the global configuration has
// been parsed. Packages register interest at init time and are notified from
// main via Call.
type ConfigCallback[T any] struct {
	callbacks []func(T)
}

func (cc *ConfigCallback[T]) AddCallback(f func(T)) {
	cc.callbacks = append(cc.callbacks, f)
}

func (cc *ConfigCallback[T]) Call(config T) {
	for _, f := range cc.callbacks {
		f(config)
	}
}
