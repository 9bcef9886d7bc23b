// Package protocol declares capability sets (protocols) and keeps the registry
// of delegate classes that the proxy consults.
//
// A protocol wraps a Go interface type. A delegate is not required to implement
// the whole interface: every method is optional, and the proxy forwards only the
// ones the delegate actually has. Protocols may be composed of parent protocols,
// the same way an interface embeds other interfaces.
//
// A class is a concrete delegate type. Classes declare protocols explicitly when
// they are registered; in addition every registered protocol that a class
// implements in full is discovered reflectively by [Registry.ProtocolsOf].
//
// Example:
//
//	type Navigation interface {
//	    ShouldStart(url string) bool
//	    DidFinish(url string)
//	}
//
//	var NavigationProtocol = protocol.New[Navigation]("Navigation")
//
//	type Browser struct{}
//
//	func (*Browser) DidFinish(url string) {}
//
//	func init() {
//	    protocol.MustRegister((*Browser)(nil), NavigationProtocol)
//	}
package protocol
