package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[LoginMessage]        = (*LoginCommand)(nil)
	_ gocmd.Commander[LogoutMessage]       = (*LogoutCommand)(nil)
	_ gocmd.Commander[RefreshMessage]      = (*RefreshCommand)(nil)
	_ gocmd.Commander[CheckBalanceMessage] = (*CheckBalanceCommand)(nil)
	_ gocmd.Commander[SpendMessage]        = (*SpendCommand)(nil)
	_ gocmd.Commander[AddMessage]          = (*AddCommand)(nil)
)
