// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/gin-gonic/gin"

	"cookie-storefront/internal/catalog"
)

// toolKey carries the MCP tool name to the request logger.
const toolKey = "mcp_tool"

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type tool struct {
	description string
	handle      toolHandler
}

type ListProductsParams struct {
	Sort string `json:"sort,omitempty" description:"default, price-asc or price-desc"`
}

type ProductParams struct {
	ProductID string `json:"product_id" description:"Catalog id of the cookie"`
}

type UpdateQuantityParams struct {
	ItemID string `json:"item_id" description:"Cart line id: a product id or a box id"`
	Delta  int    `json:"delta" description:"Signed quantity change"`
}

type UnpickParams struct {
	Index *int `json:"index" description:"Box slot to empty, 0 to 5"`
}

type RecommendParams struct {
	Mood string `json:"mood" description:"How the customer feels right now"`
}

type ListOrdersParams struct {
	Limit int `json:"limit,omitempty" description:"Maximum number of receipts to return"`
}

// extractParams decodes the request arguments into target.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return badRequest("failed to marshal arguments: %v", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return badRequest("failed to unmarshal parameters: %v", err)
	}

	return nil
}

func (s *StorefrontServer) registerTools() error {
	s.tools = map[string]tool{
		"list_products":    {"List the cookie catalog", s.handleListProducts},
		"get_cart":         {"Show cart lines and totals", s.handleGetCart},
		"add_to_cart":      {"Add one unit of a cookie to the cart", s.handleAddToCart},
		"update_quantity":  {"Change the quantity of a cart line", s.handleUpdateQuantity},
		"clear_cart":       {"Empty the cart", s.handleClearCart},
		"get_box":          {"Show the box being composed", s.handleGetBox},
		"box_pick":         {"Put a cookie in the next free box slot", s.handleBoxPick},
		"box_unpick":       {"Empty a box slot", s.handleBoxUnpick},
		"box_commit":       {"Add the finished box to the cart", s.handleBoxCommit},
		"recommend_cookie": {"Ask the concierge for a cookie that fits a mood", s.handleRecommend},
		"checkout":         {"Start the simulated payment", s.handleCheckout},
		"checkout_status":  {"Show the checkout state", s.handleCheckoutStatus},
		"list_orders":      {"List archived receipts, newest first", s.handleListOrders},
	}

	for name, t := range s.tools {
		if t.handle == nil {
			return fmt.Errorf("tool %s has no handler", name)
		}
	}
	s.log.Debug("Registered tools", "count", len(s.tools))
	return nil
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type mcpDescription struct {
	ServerInfo protocol.Implementation `json:"serverInfo"`
	Tools      []toolInfo              `json:"tools"`
}

func (s *StorefrontServer) describeMCP(c *gin.Context) {
	infos := make([]toolInfo, 0, len(s.tools))
	for name, t := range s.tools {
		infos = append(infos, toolInfo{Name: name, Description: t.description})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	c.JSON(http.StatusOK, mcpDescription{ServerInfo: s.info, Tools: infos})
}

func (s *StorefrontServer) handleMCP(c *gin.Context) {
	var request protocol.CallToolRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, badRequest("invalid JSON: %v", err))
		return
	}
	c.Set(toolKey, request.Name)

	t, ok := s.tools[request.Name]
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{
			Message: fmt.Sprintf("unknown tool: %s", request.Name),
			Code:    "unknown_tool",
		}})
		return
	}

	result, err := t.handle(c.Request.Context(), &request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *StorefrontServer) handleListProducts(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ListProductsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	order, err := catalog.ParseSortOrder(params.Sort)
	if err != nil {
		return nil, badRequest("%v", err)
	}
	return s.createJSONResponse(productViews(s.store.Products(order)))
}

func (s *StorefrontServer) handleGetCart(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.store.Cart())
}

func (s *StorefrontServer) handleAddToCart(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ProductParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ProductID == "" {
		return nil, badRequest("product_id is required")
	}
	snap, err := s.store.AddToCart(params.ProductID)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(snap)
}

func (s *StorefrontServer) handleUpdateQuantity(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params UpdateQuantityParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ItemID == "" {
		return nil, badRequest("item_id is required")
	}
	if err := checkDelta(params.Delta); err != nil {
		return nil, err
	}
	snap, matched, err := s.store.UpdateQuantity(params.ItemID, params.Delta)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(cartUpdate{Cart: snap, Matched: matched})
}

func (s *StorefrontServer) handleClearCart(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	snap, err := s.store.ClearCart()
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(snap)
}

func (s *StorefrontServer) handleGetBox(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.store.Box())
}

func (s *StorefrontServer) handleBoxPick(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ProductParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ProductID == "" {
		return nil, badRequest("product_id is required")
	}
	view, err := s.store.PickForBox(params.ProductID)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(view)
}

func (s *StorefrontServer) handleBoxUnpick(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params UnpickParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.Index == nil {
		return nil, badRequest("index is required")
	}
	view, err := s.store.UnpickFromBox(*params.Index)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(view)
}

func (s *StorefrontServer) handleBoxCommit(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	line, snap, err := s.store.CommitBox()
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(boxCommit{BoxID: line.BoxID, Cart: snap})
}

func (s *StorefrontServer) handleRecommend(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params RecommendParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	res, err := s.store.Recommend(ctx, params.Mood)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(res)
}

func (s *StorefrontServer) handleCheckout(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	st, err := s.store.Checkout()
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(st)
}

func (s *StorefrontServer) handleCheckoutStatus(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.store.CheckoutStatus())
}

func (s *StorefrontServer) handleListOrders(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ListOrdersParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	orders, err := s.store.Orders(ctx, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return s.createJSONResponse(orders)
}

func (s *StorefrontServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
