package platform

func newIdleProvider() IdleProvider {
	return lookupIdleCommand("ioreg", []string{"-c", "IOHIDSystem", "-d", "4"}, parseHIDIdleTime)
}
