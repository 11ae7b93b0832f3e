// Package clock provides a tiny time abstraction.
//
// Code that stamps outgoing data (for example the Date header of an email)
// depends on Clocker so tests can pin the time with Fixed.
package clock
