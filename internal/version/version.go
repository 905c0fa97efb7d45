package version

const Version = "0.3.0"

func String() string { return Version }
