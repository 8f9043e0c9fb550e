// Package cli is the interactive operator console.
//
// A session starts with a login prompt; after a successful login the
// principal is bound to the session once and carried in the context of every
// command. There is no logout: leaving the console ends the session.
//
// Commands
//
//	help                           list the commands the current role may use
//	whoami                         show the logged-in account
//	passwd                         change the own password
//	users list|show|add|edit|reset|delete
//	scooters list|search|show|add|update|delete
//	travellers list|search|show|add|edit|delete
//	logs [suspicious]              read the audit log
//	exit | quit                    leave the console
//
// Authorization is enforced by the services package, not by the menu; help
// only hides what the role cannot use.
package cli
