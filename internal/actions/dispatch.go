package actions

import (
	"github.com/pkg/errors"
)

// Notifier shows a notification to the user. The console keeps a single slot: the
// last notification wins.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(route string, state any) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string, state any) error

func (f NavigatorFunc) Navigate(route string, state any) error { return f(route, state) }

// Dispatch performs the side effects of r: the notification first, then the navigation.
// Either port may be nil. A failing navigation is logged and swallowed; r stays successful.
func (c *Client) Dispatch(r Result, n Notifier, nav Navigator) {
	if r.Notification != nil && n != nil {
		n.Notify(*r.Notification)
	}
	if r.Navigation == nil || nav == nil || !r.OK() {
		return
	}
	if err := c.navigate(nav, *r.Navigation); err != nil {
		c.logger.WithError(err).WithField("route", r.Navigation.Route).Warn("navigation failed")
	}
}

func (c *Client) navigate(nav Navigator, to Navigation) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("navigator panic: %v", p)
		}
	}()
	return nav.Navigate(to.Route, to.State)
}
