package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/anhtv08/simple-book-order/pkg/orderbook"
)

const (
	numOrders = 1_000_000
	minPrice  = 100.0
	maxPrice  = 200.0
	minQty    = 1
	maxQty    = 100
)

func randomOrder(id int) *orderbook.Order {
	side := orderbook.BUY
	if rand.Intn(2) == 0 {
		side = orderbook.SELL
	}
	price := minPrice + rand.Float64()*(maxPrice-minPrice)
	qty := int64(rand.Intn(maxQty-minQty+1) + minQty)

	return orderbook.NewOrder(
		fmt.Sprintf("ORD-%06d", id),
		"USDSGD",
		side,
		orderbook.LIMIT,
		float64(int(price*100))/100, // round to 2 decimals
		qty,
		time.Now(),
	)
}

func main() {
	rand.Seed(time.Now().UnixNano())

	books := orderbook.NewManager()
	totalMatched := 0
	totalQty := int64(0)

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		order := randomOrder(i + 1)
		trades, err := books.SubmitOrder(order)
		if err != nil {
			log.Fatalf("submit %s: %v", order.ID, err)
		}
		for _, t := range trades {
			totalMatched++
			totalQty += t.Qty
			if totalMatched <= 5 {
				log.Printf("Match: BUY[%s] <=> SELL[%s] @ %.2f Qty %d\n",
					t.BuyOrderID, t.SellOrderID, t.Price, t.Qty)
			}
		}
	}

	elapsed := time.Since(start)

	book := books.Engine("USDSGD").Book()
	fmt.Println("--------")
	fmt.Printf("Total Orders     : %d\n", numOrders)
	fmt.Printf("Total Matches    : %d\n", totalMatched)
	fmt.Printf("Total Matched Qty: %d\n", totalQty)
	fmt.Printf("Open Orders      : %d\n", book.OpenOrders())
	fmt.Printf("Time Taken       : %s\n", elapsed)
	fmt.Printf("Orders/sec       : %.0f\n", float64(numOrders)/elapsed.Seconds())
}
