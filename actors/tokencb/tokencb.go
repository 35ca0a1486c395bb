// Package tokencb implements the token-callback handler actor. Installed as
// an account's fallback handler, it lets the account receive safe token
// transfers: the token standards call a receiver hook on the destination and
// revert the transfer unless the hook returns its own selector.
package tokencb

import (
	"github.com/filecoin-project/go-state-types/exitcode"
	logging "github.com/ipfs/go-log/v2"

	"github.com/portico-labs/portico/types"
	"github.com/portico-labs/portico/vm"
)

var log = logging.Logger("tokencb")

var (
	MethodOnERC721Received       = types.SelectorOf("onERC721Received(address,address,uint256,bytes)")
	MethodOnERC1155Received      = types.SelectorOf("onERC1155Received(address,address,uint256,uint256,bytes)")
	MethodOnERC1155BatchReceived = types.SelectorOf("onERC1155BatchReceived(address,address,uint256[],uint256[],bytes)")
	MethodTokensReceived         = types.SelectorOf("tokensReceived(address,address,address,uint256,bytes,bytes)")
)

type Actor struct{}

var _ vm.Invokee = (*Actor)(nil)

func (a *Actor) Invoke(rt vm.Runtime, input []byte) []byte {
	sel, ok := types.SelectorFromInput(input)
	if !ok {
		rt.Abortf(exitcode.ErrUnhandledMessage, "input of %d bytes carries no selector", len(input))
	}

	switch sel {
	case MethodOnERC721Received, MethodOnERC1155Received, MethodOnERC1155BatchReceived:
		// Acknowledge by echoing the hook's own selector, left-aligned.
		log.Debugw("token callback", "selector", sel, "caller", rt.Caller())
		return types.SelectorWord(sel)
	case MethodTokensReceived:
		// The ERC-777 hook has no return value.
		log.Debugw("token callback", "selector", sel, "caller", rt.Caller())
		return nil
	default:
		rt.Abortf(exitcode.ErrUnhandledMessage, "unhandled selector %s", sel)
		return nil
	}
}

// OriginalSender recovers the originating caller from a payload forwarded by
// an account's fallback path. The immediate caller of the handler is the
// account; the originator rides in the payload's trailing word.
func OriginalSender(input []byte) ([]byte, types.Address, error) {
	return types.SplitTrailingCaller(input)
}
