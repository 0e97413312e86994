package datatrans

// Environment selects the gateway host pair. Sandbox and production use
// distinct host names; keeping them in a table avoids the substring
// rewriting the hosted API docs suggest.
type Environment struct {
	APIBase   string
	StartBase string
}

var environments = map[bool]Environment{
	true: {
		APIBase:   "https://api.sandbox.datatrans.com",
		StartBase: "https://pay.sandbox.datatrans.com",
	},
	false: {
		APIBase:   "https://api.datatrans.com",
		StartBase: "https://pay.datatrans.com",
	},
}

func EnvironmentFor(sandbox bool) Environment {
	return environments[sandbox]
}
