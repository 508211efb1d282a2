package login

const (
	RouteLanding = "/"
	RouteSignup  = "/Signup"
)

const (
	TitleValidation = "Error"
	TitleLoginOK    = "Login Success"
	TitleLoginError = "Login Error"
	TitleBackend    = "Backend Error"
	TitleComingSoon = "Feature Coming Soon!"

	MsgBackend = "Unable to process login. Please try again."
)

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a user-visible acknowledgment (an alert or banner).
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// Navigator moves the UI to a named route.
type Navigator interface {
	Navigate(route string)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type NavigatorFunc func(string)

func (f NavigatorFunc) Navigate(route string) { f(route) }
