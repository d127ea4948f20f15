package gateway

import "fmt"

// Remote operation names. Every distinct node interaction is a named entry in
// the query table below and goes through the one generic Invoke path, so the
// retry policy is applied uniformly instead of being re-wrapped per call site.
const (
	OpAccountNonce         = "account_nonce"
	OpFreeBalance          = "free_balance"
	OpEstimateFee          = "estimate_fee"
	OpSubmitExtrinsic      = "submit_extrinsic"
	OpBlockEvents          = "block_events"
	OpChainHead            = "chain_head"
	OpEpoch                = "epoch"
	OpSubnetList           = "subnet_list"
	OpSubnetInfo           = "subnet_info"
	OpSubnetNodeInfo       = "subnet_node_info"
	OpMinStake             = "min_stake"
	OpRegistrationCost     = "registration_cost"
	OpStakeBalance         = "stake_balance"
	OpDelegateStakeBalance = "delegate_stake_balance"
)

// queryMethods maps operation names to node RPC methods.
var queryMethods = map[string]string{
	OpAccountNonce:         "system_accountNextIndex",
	OpFreeBalance:          "system_freeBalance",
	OpEstimateFee:          "payment_queryFeeInfo",
	OpSubmitExtrinsic:      "author_submitAndWatchExtrinsic",
	OpBlockEvents:          "chain_getBlockEvents",
	OpChainHead:            "chain_getHead",
	OpEpoch:                "network_currentEpoch",
	OpSubnetList:           "network_subnets",
	OpSubnetInfo:           "network_subnetInfo",
	OpSubnetNodeInfo:       "network_subnetNodeInfo",
	OpMinStake:             "network_minStake",
	OpRegistrationCost:     "network_registrationCost",
	OpStakeBalance:         "network_accountSubnetStake",
	OpDelegateStakeBalance: "network_accountDelegateStake",
}

// Transaction intent names accepted by Compose.
const (
	CallRegisterSubnet      = "register_subnet"
	CallRegisterNode        = "register_node"
	CallActivateNode        = "activate_node"
	CallDeactivateNode      = "deactivate_node"
	CallRemoveNode          = "remove_node"
	CallAddStake            = "add_stake"
	CallRemoveStake         = "remove_stake"
	CallAddDelegateStake    = "add_delegate_stake"
	CallRemoveDelegateStake = "remove_delegate_stake"
	CallTransferBalance     = "transfer_balance"
)

// callSpec declares a runtime call: its pallet location and the ordered
// argument names it takes.
type callSpec struct {
	Module   string
	Function string
	Params   []string
}

// callTable is the declarative registry of every transaction the client can
// submit.
var callTable = map[string]callSpec{
	CallRegisterSubnet:      {"Network", "register_subnet", []string{"path", "memory_mb", "registration_blocks", "entry_interval"}},
	CallRegisterNode:        {"Network", "add_subnet_node", []string{"subnet_id", "hotkey", "peer_id", "stake_to_be_added"}},
	CallActivateNode:        {"Network", "activate_subnet_node", []string{"subnet_id", "subnet_node_id"}},
	CallDeactivateNode:      {"Network", "deactivate_subnet_node", []string{"subnet_id", "subnet_node_id"}},
	CallRemoveNode:          {"Network", "remove_subnet_node", []string{"subnet_id", "subnet_node_id"}},
	CallAddStake:            {"Network", "add_to_stake", []string{"subnet_id", "hotkey", "stake_to_be_added"}},
	CallRemoveStake:         {"Network", "remove_stake", []string{"subnet_id", "hotkey", "stake_to_be_removed"}},
	CallAddDelegateStake:    {"Network", "add_to_delegate_stake", []string{"subnet_id", "stake_to_be_added"}},
	CallRemoveDelegateStake: {"Network", "remove_delegate_stake", []string{"subnet_id", "shares_to_be_removed"}},
	CallTransferBalance:     {"Balances", "transfer_keep_alive", []string{"dest", "value"}},
}

// Compose builds an immutable Call for a registered transaction intent.
// Every declared argument must be present in args; extras are rejected.
// Composition is local and has no side effects.
func Compose(name string, args map[string]interface{}) (Call, error) {
	spec, ok := callTable[name]
	if !ok {
		return Call{}, fmt.Errorf("unknown call %q", name)
	}
	if len(args) != len(spec.Params) {
		return Call{}, fmt.Errorf("call %q takes %d args, got %d", name, len(spec.Params), len(args))
	}

	params := make([]Param, 0, len(spec.Params))
	for _, p := range spec.Params {
		v, ok := args[p]
		if !ok {
			return Call{}, fmt.Errorf("call %q: missing argument %q", name, p)
		}
		params = append(params, Param{Name: p, Value: v})
	}

	return Call{Module: spec.Module, Function: spec.Function, Params: params}, nil
}

// queryMethod resolves an operation name to its RPC method.
func queryMethod(op string) (string, error) {
	method, ok := queryMethods[op]
	if !ok {
		return "", fmt.Errorf("unknown operation %q", op)
	}
	return method, nil
}
